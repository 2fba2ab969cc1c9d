package http

import (
	"github.com/gin-gonic/gin"
	"github.com/grocerybot/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Chat webhooks
	webhook := router.Group("/webhook")
	{
		webhook.POST("/telegram", handler.TelegramWebhook)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		lists := v1.Group("/lists")
		{
			lists.POST("/preview", handler.PreviewList)
		}
	}

	return router
}
