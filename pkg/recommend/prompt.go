package recommend

import (
	"fmt"
	"strings"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/history"
)

// suggestionCount is how many new titles the model is asked for.
const suggestionCount = 10

// maxHistorySummaries caps how many past searches enter the prompt.
const maxHistorySummaries = 5

// buildPrompt assembles the generation prompt. It is deterministic given
// its inputs: current preferences (with "any" defaults for missing fields),
// up to five prior search summaries, and the disliked titles to avoid.
func buildPrompt(prefs books.Preferences, past []history.Entry, disliked []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Suggest %d books based on the following preferences:\n", suggestionCount)
	fmt.Fprintf(&b, "- Genres: %s\n", orDefault(prefs.Genres, "any"))
	fmt.Fprintf(&b, "- Favorite Books: %s\n", strings.Join(prefs.FavoriteBooks, ", "))
	fmt.Fprintf(&b, "- Mood: %s\n", orDefault(prefs.Mood, "any mood"))
	fmt.Fprintf(&b, "- Preferred Length: %s\n", orDefault(prefs.Length, "any length"))
	fmt.Fprintf(&b, "- Release Preference: %s\n", orDefault(prefs.ReleasePreference, "any"))

	if len(past) > maxHistorySummaries {
		past = past[:maxHistorySummaries]
	}
	if len(past) > 0 {
		b.WriteString("\nThe user's similar past searches, for context:\n")
		for _, entry := range past {
			fmt.Fprintf(&b, "- Searched for %q and was recommended: %s\n",
				summarizePreferences(entry.Preferences),
				strings.Join(recommendedTitles(entry), ", "))
		}
	}

	b.WriteString("\nDisliked titles, do not suggest these: ")
	if len(disliked) > 0 {
		b.WriteString(strings.Join(disliked, ", "))
	} else {
		b.WriteString("none")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "\nReturn exactly %d new suggestions the user has not seen before, ", suggestionCount)
	b.WriteString("none of them disliked and none repeated. ")
	b.WriteString(`Format each recommendation on its own line as: "Title by Author"`)

	return b.String()
}

// summarizePreferences renders preferences as a compact single line, used
// both in prompts and as the embedding target.
func summarizePreferences(prefs books.Preferences) string {
	parts := []string{
		"genres: " + orDefault(prefs.Genres, "any"),
		"mood: " + orDefault(prefs.Mood, "any"),
		"length: " + orDefault(prefs.Length, "any"),
		"release: " + orDefault(prefs.ReleasePreference, "any"),
	}
	if len(prefs.FavoriteBooks) > 0 {
		parts = append(parts, "favorites: "+strings.Join(prefs.FavoriteBooks, ", "))
	}
	return strings.Join(parts, "; ")
}

func recommendedTitles(entry history.Entry) []string {
	titles := make([]string, 0, len(entry.Recommendations))
	for _, book := range entry.Recommendations {
		titles = append(titles, book.Title)
	}
	return titles
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
