package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grocerybot/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ domain.Notifier = (*Client)(nil)

func TestNewClient(t *testing.T) {
	client := NewClient("123:abc", "")

	assert.NotNil(t, client)
	assert.Equal(t, "123:abc", client.token)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("123:abc", "")

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestSendMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bot123:abc/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(42), body.ChatID)
		assert.Equal(t, "✅ saved", body.Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	}))
	defer server.Close()

	client := NewClient("123:abc", server.URL)
	client.SetDebug(true)

	err := client.SendMessage(context.Background(), 42, "✅ saved")
	assert.NoError(t, err)
}

func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClient("123:abc", server.URL)

	err := client.SendMessage(context.Background(), 42, "hello")

	assert.ErrorIs(t, err, domain.ErrNotificationFailure)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessage_NotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer server.Close()

	client := NewClient("123:abc", server.URL)

	err := client.SendMessage(context.Background(), 42, "hello")
	assert.ErrorIs(t, err, domain.ErrNotificationFailure)
}

func TestSendMessage_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	client := NewClient("123:abc", server.URL)

	err := client.SendMessage(context.Background(), 42, "hello")
	assert.ErrorIs(t, err, domain.ErrNotificationFailure)
}

func TestSendMessage_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient("123:abc", url)

	err := client.SendMessage(context.Background(), 42, "hello")
	assert.ErrorIs(t, err, domain.ErrNotificationFailure)
}

func TestSendMessage_ErrorsHideToken(t *testing.T) {
	const token = "123456:SECRET-BOT-TOKEN"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := server.URL
	server.Close()

	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "unreachable host", baseURL: closedURL},
		{name: "malformed base URL", baseURL: "http://bad host\x7f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(token, tt.baseURL)

			err := client.SendMessage(context.Background(), 42, "hello")
			require.Error(t, err)
			assert.False(t, strings.Contains(err.Error(), "SECRET-BOT-TOKEN"), "token leaked: %v", err)
		})
	}
}

func TestSendMessage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient("123:abc", server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.SendMessage(ctx, 42, "hello")
	assert.Error(t, err)
}
