package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grocerybot/backend/internal/domain"
	"github.com/grocerybot/backend/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Generative Language API endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.0-flash"
)

// Config holds Gemini client configuration
type Config struct {
	APIKey        string
	Model         string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
}

// Client reformats grocery text with the Gemini generateContent endpoint
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// NewClient creates a new Gemini reformatter
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	perSecond := config.RatePerSecond
	if perSecond <= 0 {
		perSecond = 3
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      config.APIKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), 5),
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Reformat asks the model to rewrite text as item lines
func (c *Client) Reformat(ctx context.Context, text string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	payload := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: usecase.BuildReformatPrompt(text)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			MaxOutputTokens: 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrReformatFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrReformatFailed, err)
	}

	if c.debug {
		log.Printf("[GEMINI] Raw response (status %d): %s", resp.StatusCode, string(raw))
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[GEMINI] API error - Status: %d", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrReformatFailed, resp.StatusCode, string(raw))
	}

	var result generateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrReformatFailed, err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty gemini response", domain.ErrReformatFailed)
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	output := strings.TrimSpace(sb.String())
	if output == "" {
		return "", fmt.Errorf("%w: empty gemini response", domain.ErrReformatFailed)
	}

	return output, nil
}
