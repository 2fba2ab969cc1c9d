package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grocerybot/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	gin.SetMode(gin.TestMode)
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Environment: "test"},
		Parser: config.ParserConfig{QuantityPolicy: "passthrough"},
		Store:  config.StoreConfig{Type: "memory"},
		Cache:  config.CacheConfig{Type: "memory", TTL: time.Hour},
	}
}

func TestNew_MemoryStore(t *testing.T) {
	a, err := New(context.Background(), baseConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Service)
	assert.Empty(t, a.closers)

	req, _ := http.NewRequest("POST", "/webhook/telegram",
		strings.NewReader(`{"update_id":1,"message":{"message_id":1,"text":"Milk|dairy|1|","chat":{"id":7}}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_SQLiteStoreWithReformatCache(t *testing.T) {
	cfg := baseConfig()
	cfg.Store = config.StoreConfig{Type: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "grocery.db")}
	cfg.Reformat = config.ReformatConfig{Enabled: true, Provider: "gemini", APIKey: "key"}
	cfg.Telegram = config.TelegramConfig{BotToken: "123:abc", SendReplies: true}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, a.closers, 2)
	assert.NoError(t, a.Close())
	assert.Empty(t, a.closers)
}

func TestNew_OpenAIReformatter(t *testing.T) {
	cfg := baseConfig()
	cfg.Reformat = config.ReformatConfig{Enabled: true, Provider: "openai", APIKey: "key"}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Service)
}

func TestNew_StoreFailure(t *testing.T) {
	cfg := baseConfig()
	cfg.Store = config.StoreConfig{Type: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "missing-dir", "grocery.db")}

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_RedisFailure(t *testing.T) {
	cfg := baseConfig()
	cfg.Reformat = config.ReformatConfig{Enabled: true, Provider: "openai", APIKey: "key"}
	cfg.Cache = config.CacheConfig{Type: "redis", RedisURL: "redis://127.0.0.1:1/0"}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := New(ctx, cfg)
	assert.Error(t, err)
}
