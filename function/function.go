// Package function exposes the webhook as a Cloud Functions HTTP entry point.
package function

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/grocerybot/backend/config"
	"github.com/grocerybot/backend/internal/app"
)

var (
	mu          sync.Mutex
	application *app.App
	newApp      = buildApp
)

func init() {
	functions.HTTP("GroceryWebhook", GroceryWebhook)
}

func buildApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// getApp returns the shared app, building it on first use. A failed build is
// retried by the next request.
func getApp(ctx context.Context) (*app.App, error) {
	mu.Lock()
	defer mu.Unlock()

	if application != nil {
		return application, nil
	}

	a, err := newApp(ctx)
	if err != nil {
		return nil, err
	}
	application = a
	return application, nil
}

// GroceryWebhook serves every route of the application. The app is built on
// the first successful request and reused by warm instances.
func GroceryWebhook(w http.ResponseWriter, r *http.Request) {
	a, err := getApp(context.Background())
	if err != nil {
		log.Printf("[FUNCTION] init failed: %v", err)
		http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	a.Router.ServeHTTP(w, r)
}
