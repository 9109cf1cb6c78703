// Package metadata enriches raw candidate suggestions with canonical
// bibliographic records from an external lookup service.
package metadata

import (
	"context"
	"log/slog"

	"github.com/barekit/biblio/pkg/books"
	"golang.org/x/sync/errgroup"
)

// Volume is one bibliographic record from a lookup service, with absent
// fields already mapped to their documented defaults.
type Volume struct {
	Title       string
	Authors     []string
	Description string
	Thumbnail   string
	InfoLink    string
}

// Client looks up a single volume by free-text query. A nil Volume with a
// nil error means the service returned no results.
type Client interface {
	Lookup(ctx context.Context, query string) (*Volume, error)
}

// Enricher maps candidates to enriched books, one lookup per candidate.
// Lookups for distinct candidates are independent, so they may fan out
// concurrently; output order always matches input order.
type Enricher struct {
	client      Client
	concurrency int
	logger      *slog.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithConcurrency sets how many lookups run at once. Values below 1 mean
// sequential.
func WithConcurrency(n int) EnricherOption {
	return func(e *Enricher) {
		e.concurrency = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// NewEnricher creates a new Enricher.
func NewEnricher(client Client, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		client:      client,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich looks up every candidate in order and returns the matched books.
// A failed or empty lookup skips that candidate rather than aborting the
// batch; duplicate titles produce duplicate lookups. If nothing matches,
// the result is the single not-found sentinel, so the caller never sees an
// empty list.
func (e *Enricher) Enrich(ctx context.Context, candidates []books.Candidate) []books.Book {
	results := make([]*Volume, len(candidates))

	limit := e.concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, c := range candidates {
		g.Go(func() error {
			query := c.Title
			if c.Author != "" {
				query = c.Title + " by " + c.Author
			}

			vol, err := e.client.Lookup(gctx, query)
			if err != nil {
				e.logger.Warn("metadata lookup failed", "title", c.Title, "error", err)
				return nil
			}
			results[i] = vol
			return nil
		})
	}

	// Lookup errors are swallowed per candidate, so Wait cannot fail.
	_ = g.Wait()

	// Gather in input order.
	enriched := make([]books.Book, 0, len(candidates))
	for _, vol := range results {
		if vol == nil {
			continue
		}
		enriched = append(enriched, books.Book{
			Title:       vol.Title,
			Authors:     vol.Authors,
			Description: vol.Description,
			Thumbnail:   vol.Thumbnail,
			InfoLink:    vol.InfoLink,
		})
	}

	if len(enriched) == 0 {
		return []books.Book{books.NotFound()}
	}
	return enriched
}
