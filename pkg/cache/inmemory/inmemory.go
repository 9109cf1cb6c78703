// Package inmemory implements cache.Cache with a process-local map.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/barekit/biblio/pkg/books"
)

type entry struct {
	result    []books.Book
	expiresAt time.Time
}

// InMemory implements cache.Cache using a map with lazy expiry.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates a new InMemory cache.
func New() *InMemory {
	return &InMemory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *InMemory) Get(ctx context.Context, key string) ([]books.Book, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	// Return a copy so callers cannot mutate the cached slice.
	result := make([]books.Book, len(e.result))
	copy(result, e.result)
	return result, true, nil
}

func (c *InMemory) Set(ctx context.Context, key string, result []books.Book, ttl time.Duration) error {
	stored := make([]books.Book, len(result))
	copy(stored, result)

	c.mu.Lock()
	c.entries[key] = entry{result: stored, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
