package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/grocerybot/backend/internal/domain"
)

// MemoryStore keeps grocery lists in process memory. Used in development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	lists []domain.GroceryList
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores a copy of list and returns its new ID
func (s *MemoryStore) Save(ctx context.Context, list *domain.GroceryList) (string, error) {
	if list == nil {
		return "", domain.ErrInvalidRequest
	}

	stored := *list
	stored.ID = uuid.NewString()
	stored.Items = append([]domain.GroceryItem(nil), list.Items...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, stored)

	return stored.ID, nil
}

// Lists returns a snapshot of every stored list in insertion order
func (s *MemoryStore) Lists() []domain.GroceryList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.GroceryList(nil), s.lists...)
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
