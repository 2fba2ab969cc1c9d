package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching reformatted text
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Reformatter turns free-form grocery text into "name | category | quantity | note" lines
type Reformatter interface {
	Reformat(ctx context.Context, text string) (string, error)
}

// ListRepository persists grocery lists. Save writes the list and all of its
// items in one operation and returns the new list ID.
type ListRepository interface {
	Save(ctx context.Context, list *GroceryList) (string, error)
}

// Notifier sends a text message to a chat
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
