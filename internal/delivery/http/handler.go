package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grocerybot/backend/internal/domain"
	"github.com/grocerybot/backend/internal/usecase"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	groceryService *usecase.GroceryService
}

// NewHandler creates a new HTTP handler
func NewHandler(groceryService *usecase.GroceryService) *Handler {
	return &Handler{groceryService: groceryService}
}

// previewRequest is the body of a preview call
type previewRequest struct {
	Text string `json:"text" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "grocerybot",
		"version": Version,
	})
}

// TelegramWebhook handles a Telegram update carrying a grocery list.
// Telegram retries non-2xx responses, so messages the bot cannot use are
// acknowledged with 200.
func (h *Handler) TelegramWebhook(c *gin.Context) {
	if h.groceryService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Grocery service not configured"})
		return
	}

	var update domain.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	result, err := h.groceryService.ProcessUpdate(c.Request.Context(), &update)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"message":   "List saved",
			"listId":    result.ListID,
			"itemCount": result.ItemCount,
		})
	case errors.Is(err, domain.ErrNoValidMessage):
		c.JSON(http.StatusOK, gin.H{"message": "No valid message received."})
	case errors.Is(err, domain.ErrNoItems) && !errors.Is(err, domain.ErrNotificationFailure):
		c.JSON(http.StatusOK, gin.H{"message": "No items could be parsed from the message."})
	default:
		log.Printf("[WEBHOOK] update %d failed: %v", update.UpdateID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving list"})
	}
}

// PreviewList parses text the way the webhook would, without saving it
func (h *Handler) PreviewList(c *gin.Context) {
	if h.groceryService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Grocery service not configured"})
		return
	}

	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	items, err := h.groceryService.Preview(c.Request.Context(), req.Text)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
	case errors.Is(err, domain.ErrReformatFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Reformatting failed"})
	default:
		log.Printf("[PREVIEW] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Preview failed"})
	}
}
