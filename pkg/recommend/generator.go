package recommend

import (
	"context"
	"log/slog"
	"strings"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/history"
	"github.com/barekit/biblio/pkg/llm"
)

// candidateSeparator splits an LLM output line into title and author.
const candidateSeparator = " by "

// Generator asks the LLM for book suggestions and parses the free-text
// response into candidates.
type Generator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(provider llm.Provider, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, logger: logger}
}

// Generate builds the prompt, calls the model, and parses the result. An
// LLM failure never escapes this boundary: it degrades to the single
// unavailable sentinel candidate.
func (g *Generator) Generate(ctx context.Context, prefs books.Preferences, past []history.Entry, disliked []string) []books.Candidate {
	prompt := buildPrompt(prefs, past, disliked)

	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		extErr := &ExternalError{Service: "llm", Err: err}
		g.logger.Warn("generation failed, degrading to sentinel", "error", extErr)
		return []books.Candidate{books.Unavailable()}
	}

	return ParseCandidates(response.Content)
}

// ParseCandidates extracts (title, author) pairs from free text, one per
// line, split on the first " by " only. Lines without the separator are
// dropped silently: the contract is best-effort parsing of free text, not
// strict validation.
func ParseCandidates(text string) []books.Candidate {
	var candidates []books.Candidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		title, author, found := strings.Cut(line, candidateSeparator)
		if !found {
			continue
		}

		candidates = append(candidates, books.Candidate{
			Title:  strings.TrimSpace(title),
			Author: strings.TrimSpace(author),
		})
	}
	return candidates
}
