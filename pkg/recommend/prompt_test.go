package recommend

import (
	"strings"
	"testing"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/history"
)

func TestBuildPrompt_Defaults(t *testing.T) {
	prompt := buildPrompt(books.Preferences{}, nil, nil)

	for _, want := range []string{
		"- Genres: any",
		"- Mood: any mood",
		"- Preferred Length: any length",
		"- Release Preference: any",
		"do not suggest these: none",
		`"Title by Author"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	prefs := books.Preferences{Genres: "horror", FavoriteBooks: []string{"It"}}
	disliked := []string{"Misery", "Carrie"}

	a := buildPrompt(prefs, nil, disliked)
	b := buildPrompt(prefs, nil, disliked)
	if a != b {
		t.Error("identical inputs produced different prompts")
	}
}

func TestBuildPrompt_CapsHistoryAtFive(t *testing.T) {
	past := make([]history.Entry, 8)
	for i := range past {
		past[i] = history.Entry{
			Preferences:     books.Preferences{Genres: "g"},
			Recommendations: []books.Book{{Title: "T"}},
		}
	}

	prompt := buildPrompt(books.Preferences{}, past, nil)
	if got := strings.Count(prompt, "Searched for"); got != maxHistorySummaries {
		t.Errorf("expected %d history summaries, got %d", maxHistorySummaries, got)
	}
}

func TestSummarizePreferences(t *testing.T) {
	summary := summarizePreferences(books.Preferences{
		Genres:        "science fiction",
		FavoriteBooks: []string{"Dune"},
	})

	if !strings.Contains(summary, "science fiction") {
		t.Errorf("summary missing genres: %q", summary)
	}
	if !strings.Contains(summary, "Dune") {
		t.Errorf("summary missing favorites: %q", summary)
	}
	if !strings.Contains(summary, "mood: any") {
		t.Errorf("summary missing mood default: %q", summary)
	}
}
