// Package recommend implements the recommendation pipeline: cache lookup,
// history retrieval by embedding similarity, LLM generation, feedback
// refinement, and metadata enrichment.
package recommend

import (
	"context"
	"log/slog"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/cache"
	"github.com/barekit/biblio/pkg/embedding"
	"github.com/barekit/biblio/pkg/feedback"
	"github.com/barekit/biblio/pkg/history"
	"github.com/barekit/biblio/pkg/llm"
	"github.com/barekit/biblio/pkg/metadata"
	"github.com/barekit/biblio/pkg/similarity"
)

const (
	// topKHistory is how many past searches feed the prompt.
	topKHistory = 5
	// recentHistoryLimit bounds the linear similarity scan.
	recentHistoryLimit = 50
)

// Recommender composes the pipeline components. The only hard failure is a
// malformed preferences input; every external step degrades gracefully.
type Recommender struct {
	generator *Generator
	refiner   *Refiner
	enricher  *metadata.Enricher
	embedder  embedding.Embedder
	cache     cache.Cache
	feedback  feedback.Store
	history   history.Store
	logger    *slog.Logger
}

// Option is a function that configures a Recommender.
type Option func(*Recommender)

// WithEmbedder enables history retrieval by embedding similarity.
func WithEmbedder(e embedding.Embedder) Option {
	return func(r *Recommender) {
		r.embedder = e
	}
}

// WithCache enables result caching.
func WithCache(c cache.Cache) Option {
	return func(r *Recommender) {
		r.cache = c
	}
}

// WithFeedback enables feedback-based refinement.
func WithFeedback(store feedback.Store) Option {
	return func(r *Recommender) {
		r.feedback = store
	}
}

// WithHistory enables search-history retrieval and recording.
func WithHistory(store history.Store) Option {
	return func(r *Recommender) {
		r.history = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recommender) {
		r.logger = logger
	}
}

// New creates a new Recommender. The LLM provider and the enricher are
// required; everything else is optional and disables its pipeline step when
// absent.
func New(provider llm.Provider, enricher *metadata.Enricher, opts ...Option) *Recommender {
	r := &Recommender{
		enricher: enricher,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.generator = NewGenerator(provider, r.logger)
	r.refiner = NewRefiner(r.feedback)

	return r
}

// FetchBooks is the pipeline entry point. It accepts the raw preferences
// value (a mapping or a books.Preferences) and an optional user; user may
// be empty, which disables the personalization steps. The returned list is
// never empty. The only error it returns is books.ErrInvalidPreferences;
// upstream failures degrade per step instead of propagating.
func (r *Recommender) FetchBooks(ctx context.Context, rawPrefs any, user string) ([]books.Book, error) {
	prefs, err := books.ParsePreferences(rawPrefs)
	if err != nil {
		return nil, err
	}

	key := cache.Key(prefs)
	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("cache lookup failed", "error", err)
		} else if ok {
			r.logger.Debug("cache hit", "key", key)
			return cached, nil
		}
	}

	queryVec := r.embedPreferences(ctx, prefs)
	past := r.similarHistory(ctx, user, queryVec)
	disliked := r.dislikedTitles(ctx, user)

	candidates := r.generator.Generate(ctx, prefs, past, disliked)

	refined, err := r.refiner.Refine(ctx, user, candidates)
	if err != nil {
		r.logger.Warn("refinement failed, keeping unrefined candidates", "error", err)
		refined = candidates
	}

	result := r.enricher.Enrich(ctx, refined)

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, result, cache.DefaultTTL); err != nil {
			r.logger.Warn("cache store failed", "error", err)
		}
	}

	r.appendHistory(ctx, user, prefs, result, queryVec)

	return result, nil
}

// embedPreferences computes the embedding of the preferences summary. A
// failure only disables history-aware features for this call.
func (r *Recommender) embedPreferences(ctx context.Context, prefs books.Preferences) []float32 {
	if r.embedder == nil {
		return nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{summarizePreferences(prefs)})
	if err != nil {
		extErr := &ExternalError{Service: "embedding", Err: err}
		r.logger.Warn("embedding failed, skipping history retrieval", "error", extErr)
		return nil
	}
	if len(vectors) == 0 {
		return nil
	}
	return vectors[0]
}

// similarHistory returns up to topKHistory past searches most similar to
// the query vector. Stores that rank server-side are used directly;
// otherwise recent entries are scanned linearly. Entries without an
// embedding never rank.
func (r *Recommender) similarHistory(ctx context.Context, user string, queryVec []float32) []history.Entry {
	if r.history == nil || user == "" || len(queryVec) == 0 {
		return nil
	}

	if searcher, ok := r.history.(history.SimilaritySearcher); ok {
		entries, err := searcher.SearchSimilar(ctx, user, queryVec, topKHistory)
		if err != nil {
			r.logger.Warn("history similarity search failed", "error", err)
			return nil
		}
		return entries
	}

	recent, err := r.history.Recent(ctx, user, recentHistoryLimit)
	if err != nil {
		r.logger.Warn("history fetch failed", "error", err)
		return nil
	}

	vectors := make([][]float32, len(recent))
	for i, entry := range recent {
		vectors[i] = entry.Embedding
	}

	matches := similarity.Rank(queryVec, vectors, topKHistory)
	entries := make([]history.Entry, len(matches))
	for i, m := range matches {
		entries[i] = recent[m.Index]
	}
	return entries
}

func (r *Recommender) dislikedTitles(ctx context.Context, user string) []string {
	if r.feedback == nil || user == "" {
		return nil
	}

	disliked, err := r.feedback.Disliked(ctx, user)
	if err != nil {
		r.logger.Warn("disliked titles fetch failed", "error", err)
		return nil
	}
	return disliked
}

// appendHistory records the search. The stored embedding is the same
// preferences-text vector used for retrieval, so ranking and storage share
// one embedding target across calls. Failures are logged and swallowed:
// the result is already computed and still goes back to the caller.
func (r *Recommender) appendHistory(ctx context.Context, user string, prefs books.Preferences, result []books.Book, queryVec []float32) {
	if r.history == nil || user == "" {
		return
	}

	err := r.history.Append(ctx, history.Entry{
		User:            user,
		Preferences:     prefs,
		Recommendations: result,
		Embedding:       queryVec,
	})
	if err != nil {
		r.logger.Warn("history append failed", "error", err)
	}
}
