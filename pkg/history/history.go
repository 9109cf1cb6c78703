// Package history stores the per-user log of past searches: the preferences
// a user asked with, the books they got back, and an embedding of the
// preferences text for similarity retrieval. The log is append-only; the
// pipeline never mutates or deletes entries.
package history

import (
	"context"
	"time"

	"github.com/barekit/biblio/pkg/books"
)

// Entry is one past search. Embedding may be empty when the embedding call
// failed at append time; such entries are excluded from similarity ranking.
type Entry struct {
	ID              string
	User            string
	Preferences     books.Preferences
	Recommendations []books.Book
	Embedding       []float32
	CreatedAt       time.Time
}

// Store persists search history. Concurrent appends for the same user may
// interleave freely; their relative order carries no meaning.
type Store interface {
	// Append records one search. Stores assign CreatedAt if it is zero.
	Append(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries for the user, newest first.
	Recent(ctx context.Context, user string, limit int) ([]Entry, error)
}

// SimilaritySearcher is implemented by stores that can rank entries by
// vector similarity server-side, instead of the pipeline's linear scan.
type SimilaritySearcher interface {
	// SearchSimilar returns up to k entries with embeddings, most similar
	// to query first.
	SearchSimilar(ctx context.Context, user string, query []float32, k int) ([]Entry, error)
}
