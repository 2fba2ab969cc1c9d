package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/grocerybot/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Bot API endpoint
const DefaultBaseURL = "https://api.telegram.org"

// Client sends messages through the Telegram Bot API
type Client struct {
	httpClient  *http.Client
	token       string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// sendMessageRequest is the body of a sendMessage call
type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// apiResponse is the envelope every Bot API method returns
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewClient creates a new Telegram Bot API client
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// Telegram allows about 30 messages per second per bot
	limiter := rate.NewLimiter(rate.Limit(30), 30)

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:       token,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SendMessage posts text to the given chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", stripURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sendMessage: %v", domain.ErrNotificationFailure, stripURL(err))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if c.debug {
		log.Printf("[TELEGRAM] sendMessage chat=%d status=%d body=%s", chatID, resp.StatusCode, string(raw))
	}

	var result apiResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%w: status %d, undecodable body", domain.ErrNotificationFailure, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !result.OK {
		log.Printf("[TELEGRAM] sendMessage failed - Status: %d, Description: %s", resp.StatusCode, result.Description)
		return fmt.Errorf("%w: status %d: %s", domain.ErrNotificationFailure, resp.StatusCode, result.Description)
	}

	return nil
}

// stripURL drops the request URL from err. Bot API URLs carry the bot token.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
