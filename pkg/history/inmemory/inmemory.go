// Package inmemory implements history.Store with a map, for tests and
// single-process setups.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/barekit/biblio/pkg/history"
	"github.com/google/uuid"
)

// InMemory implements history.Store using a per-user slice.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string][]history.Entry
}

// New creates a new InMemory store.
func New() *InMemory {
	return &InMemory{
		entries: make(map[string][]history.Entry),
	}
}

func (s *InMemory) Append(ctx context.Context, entry history.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.entries[entry.User] = append(s.entries[entry.User], entry)
	s.mu.Unlock()
	return nil
}

func (s *InMemory) Recent(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.entries[user]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	// Newest first.
	result := make([]history.Entry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}
