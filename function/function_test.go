package function

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grocerybot/backend/config"
	"github.com/grocerybot/backend/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryApp(ctx context.Context) (*app.App, error) {
	gin.SetMode(gin.TestMode)
	return app.New(ctx, &config.Config{
		Server: config.ServerConfig{Port: "8080", Environment: "test"},
		Parser: config.ParserConfig{QuantityPolicy: "passthrough"},
		Store:  config.StoreConfig{Type: "memory"},
		Cache:  config.CacheConfig{Type: "memory", TTL: time.Hour},
	})
}

func stubBuilder(t *testing.T, build func(context.Context) (*app.App, error)) {
	t.Helper()
	newApp = build
	application = nil
	t.Cleanup(func() {
		newApp = buildApp
		application = nil
	})
}

func serveHealth() *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	GroceryWebhook(w, req)
	return w
}

func TestGroceryWebhook_InitFailure(t *testing.T) {
	stubBuilder(t, func(context.Context) (*app.App, error) {
		return nil, errors.New("boom")
	})

	w := serveHealth()

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Nil(t, application)
}

func TestGroceryWebhook_RetriesAfterInitFailure(t *testing.T) {
	calls := 0
	stubBuilder(t, func(ctx context.Context) (*app.App, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("mongo not ready")
		}
		return memoryApp(ctx)
	})

	assert.Equal(t, http.StatusServiceUnavailable, serveHealth().Code)
	assert.Equal(t, http.StatusOK, serveHealth().Code)
	assert.Equal(t, http.StatusOK, serveHealth().Code)

	assert.Equal(t, 2, calls)
	require.NotNil(t, application)
}
