package openai

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/grocerybot/backend/internal/domain"
	"github.com/grocerybot/backend/internal/usecase"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// DefaultModel is used when no model is configured
const DefaultModel = openai.GPT4oMini

// Config holds OpenAI client configuration
type Config struct {
	APIKey        string
	Model         string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
}

// Client reformats grocery text with an OpenAI chat completion
type Client struct {
	api         *openai.Client
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new OpenAI reformatter
func NewClient(config Config) *Client {
	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	apiConfig.HTTPClient = &http.Client{Timeout: timeout}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	perSecond := config.RatePerSecond
	if perSecond <= 0 {
		perSecond = 3
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiConfig),
		model:       model,
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

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: usecase.BuildReformatPrompt(text),
			},
		},
	})
	if err != nil {
		log.Printf("[OPENAI] Chat completion failed: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrReformatFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrReformatFailed)
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrReformatFailed)
	}

	if c.debug {
		log.Printf("[OPENAI] Reformatted %d chars into:\n%s", len(text), output)
	}

	return output, nil
}
