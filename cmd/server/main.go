package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/grocerybot/backend/config"
	"github.com/grocerybot/backend/internal/app"
	httpDelivery "github.com/grocerybot/backend/internal/delivery/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Grocerybot Backend v%s", httpDelivery.Version)
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	if cfg.Telegram.BotToken == "" {
		log.Printf("WARNING: Telegram bot token NOT CONFIGURED - no replies will be sent")
	}

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := application.Router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
