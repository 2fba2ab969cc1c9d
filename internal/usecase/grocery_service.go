package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/grocerybot/backend/internal/domain"
)

var (
	cacheKeySpaceRegex = regexp.MustCompile(`[ \t]+`)
)

// Default chat replies
const (
	DefaultConfirmationText = "✅ The list was saved successfully!"
	DefaultNoItemsText      = "❌ I could not understand the list. Send one item per line: name | category | quantity | note"
	DefaultFailureText      = "❌ Something went wrong while saving the list. Please try again."
)

// GroceryServiceConfig holds configuration for the grocery service
type GroceryServiceConfig struct {
	CacheTTL         time.Duration
	SendReplies      bool
	SendConfirmation bool
	ConfirmationText string
	NoItemsText      string
	FailureText      string
	Clock            func() time.Time
}

// ProcessResult describes a saved grocery list
type ProcessResult struct {
	ListID    string
	ItemCount int
}

// GroceryService runs an incoming message through reformat, parse, save and reply
type GroceryService struct {
	parser      *LineParser
	reformatter domain.Reformatter
	cache       domain.CacheRepository
	lists       domain.ListRepository
	notifier    domain.Notifier
	config      GroceryServiceConfig
}

// NewGroceryService creates a new grocery service. reformatter, cache and
// notifier may be nil; the matching steps are then skipped.
func NewGroceryService(
	parser *LineParser,
	reformatter domain.Reformatter,
	cache domain.CacheRepository,
	lists domain.ListRepository,
	notifier domain.Notifier,
	config GroceryServiceConfig,
) *GroceryService {
	if config.CacheTTL == 0 {
		config.CacheTTL = 24 * time.Hour
	}
	if config.ConfirmationText == "" {
		config.ConfirmationText = DefaultConfirmationText
	}
	if config.NoItemsText == "" {
		config.NoItemsText = DefaultNoItemsText
	}
	if config.FailureText == "" {
		config.FailureText = DefaultFailureText
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &GroceryService{
		parser:      parser,
		reformatter: reformatter,
		cache:       cache,
		lists:       lists,
		notifier:    notifier,
		config:      config,
	}
}

// ProcessUpdate handles one webhook update.
// Flow: validate -> reformat (optional) -> parse -> save -> confirm (optional).
// The first failing step ends the request; nothing already saved is undone.
func (s *GroceryService) ProcessUpdate(ctx context.Context, update *domain.Update) (*ProcessResult, error) {
	chatID, ok := update.ChatID()
	if !ok || update.Message.Text == "" {
		return nil, domain.ErrNoValidMessage
	}

	// Blank text skips the reformatter and falls through to the "not understood" reply
	text := update.Message.Text
	if strings.TrimSpace(text) != "" {
		formatted, err := s.reformat(ctx, text)
		if err != nil {
			s.replyFailure(ctx, chatID, s.config.FailureText)
			return nil, err
		}
		text = formatted
	}

	items := s.parser.Parse(text)
	if len(items) == 0 {
		log.Printf("[GROCERY] No items parsed for chat %d", chatID)
		s.forgetReformat(ctx, update.Message.Text)
		if s.config.SendReplies {
			if err := s.reply(ctx, chatID, s.config.NoItemsText); err != nil {
				return nil, errors.Join(domain.ErrNoItems, err)
			}
		}
		return nil, domain.ErrNoItems
	}

	list := domain.NewGroceryList(items, s.config.Clock())
	listID, err := s.lists.Save(ctx, list)
	if err != nil {
		log.Printf("[GROCERY] Save failed for chat %d: %v", chatID, err)
		s.replyFailure(ctx, chatID, s.config.FailureText)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	log.Printf("[GROCERY] Saved list %s with %d items for chat %d", listID, len(items), chatID)

	result := &ProcessResult{ListID: listID, ItemCount: len(items)}

	if s.config.SendConfirmation {
		if err := s.reply(ctx, chatID, s.config.ConfirmationText); err != nil {
			return result, err
		}
	}

	return result, nil
}

// Preview reformats and parses text without saving anything
func (s *GroceryService) Preview(ctx context.Context, text string) ([]domain.GroceryItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	formatted, err := s.reformat(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.parser.Parse(formatted), nil
}

// reformat passes text through the reformatter, or returns it unchanged when none is configured
func (s *GroceryService) reformat(ctx context.Context, text string) (string, error) {
	if s.reformatter == nil {
		return text, nil
	}

	cacheKey := generateCacheKey(text)
	if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	formatted, err := s.reformatter.Reformat(ctx, text)
	if err != nil {
		log.Printf("[GROCERY] Reformat failed: %v", err)
		if errors.Is(err, domain.ErrReformatFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrReformatFailed, err)
	}
	if strings.TrimSpace(formatted) == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrReformatFailed)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, formatted, s.config.CacheTTL); err != nil {
			log.Printf("[GROCERY] Cache write failed: %v", err)
		}
	}

	return formatted, nil
}

// getFromCache looks up previously reformatted text
func (s *GroceryService) getFromCache(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[GROCERY] Cache read failed: %v", err)
		}
		return "", false
	}
	return value, true
}

// forgetReformat evicts a cached reformat that produced no items, so the next
// identical message asks the reformatter again
func (s *GroceryService) forgetReformat(ctx context.Context, text string) {
	if s.reformatter == nil || s.cache == nil || strings.TrimSpace(text) == "" {
		return
	}
	if err := s.cache.Delete(ctx, generateCacheKey(text)); err != nil {
		log.Printf("[GROCERY] Cache delete failed: %v", err)
	}
}

// replyFailure tells the chat that the request failed. Delivery errors are only logged.
func (s *GroceryService) replyFailure(ctx context.Context, chatID int64, text string) {
	if !s.config.SendReplies {
		return
	}
	_ = s.reply(ctx, chatID, text)
}

// reply sends text to the chat
func (s *GroceryService) reply(ctx context.Context, chatID int64, text string) error {
	if s.notifier == nil {
		return nil
	}

	if err := s.notifier.SendMessage(ctx, chatID, text); err != nil {
		log.Printf("[GROCERY] Reply to chat %d failed: %v", chatID, err)
		if errors.Is(err, domain.ErrNotificationFailure) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailure, err)
	}
	return nil
}

// generateCacheKey creates a cache key from message text.
// Format: "reformat:{trimmed text with collapsed spaces}"
func generateCacheKey(text string) string {
	normalized := strings.TrimSpace(text)
	normalized = cacheKeySpaceRegex.ReplaceAllString(normalized, " ")
	return "reformat:" + normalized
}
