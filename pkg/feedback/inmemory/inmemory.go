// Package inmemory implements feedback.Store with a map, for tests and
// single-process setups.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/barekit/biblio/pkg/feedback"
)

type key struct {
	user  string
	title string
}

// InMemory implements feedback.Store using a map. The mutex makes each
// Submit an atomic read-modify-write.
type InMemory struct {
	mu      sync.RWMutex
	entries map[key]feedback.Feedback
}

// New creates a new InMemory store.
func New() *InMemory {
	return &InMemory{
		entries: make(map[key]feedback.Feedback),
	}
}

func (s *InMemory) Submit(ctx context.Context, user, title string, fb feedback.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{user: user, title: title}
	current, exists := s.entries[k]

	if !fb.Valid() {
		delete(s.entries, k)
		return nil
	}

	switch {
	case !exists:
		s.entries[k] = fb
	case current == fb:
		delete(s.entries, k)
	default:
		s.entries[k] = fb
	}
	return nil
}

func (s *InMemory) Liked(ctx context.Context, user string) ([]string, error) {
	return s.titles(user, feedback.Like), nil
}

func (s *InMemory) Disliked(ctx context.Context, user string) ([]string, error) {
	return s.titles(user, feedback.Dislike), nil
}

func (s *InMemory) titles(user string, fb feedback.Feedback) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var titles []string
	for k, v := range s.entries {
		if k.user == user && v == fb {
			titles = append(titles, k.title)
		}
	}
	sort.Strings(titles)
	return titles
}
