// Package books defines the core domain types shared across the
// recommendation pipeline.
package books

import (
	"errors"
	"fmt"
)

// ErrInvalidPreferences is returned when the preferences input is not a
// mapping. It is the only hard precondition failure in the pipeline: it is
// reported before any external call is made.
var ErrInvalidPreferences = errors.New("preferences must be a mapping")

// Preferences describes what the user is in the mood for. Every field is
// optional; absent fields are treated as "any".
type Preferences struct {
	Genres            string   `json:"genres,omitempty"`
	FavoriteBooks     []string `json:"favorite_books,omitempty"`
	Mood              string   `json:"mood,omitempty"`
	Length            string   `json:"length,omitempty"`
	ReleasePreference string   `json:"release_preference,omitempty"`
}

// Candidate is a raw (title, author) suggestion parsed from LLM output.
// It carries no metadata; the enrichment step turns it into a Book.
type Candidate struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Book is a fully enriched record returned to the caller.
type Book struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	InfoLink    string   `json:"info_link"`
}

// NotFound returns the sentinel Book substituted when enrichment yields
// nothing. The pipeline never returns an empty list.
func NotFound() Book {
	return Book{
		Title:       "No books found",
		Authors:     []string{"N/A"},
		Description: "No matching books found.",
		Thumbnail:   "",
		InfoLink:    "#",
	}
}

// Unavailable returns the sentinel Candidate emitted when the generation
// step fails entirely.
func Unavailable() Candidate {
	return Candidate{Title: "No recommendations available"}
}

// ParsePreferences validates and converts a raw preferences value into a
// Preferences struct. Accepts a Preferences value, a map[string]any (the
// shape a decoded JSON body has) or a map[string]string. Anything else,
// including nil, fails with ErrInvalidPreferences.
func ParsePreferences(raw any) (Preferences, error) {
	switch v := raw.(type) {
	case Preferences:
		return v, nil
	case *Preferences:
		if v == nil {
			return Preferences{}, ErrInvalidPreferences
		}
		return *v, nil
	case map[string]any:
		return fromAnyMap(v), nil
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return fromAnyMap(m), nil
	default:
		return Preferences{}, fmt.Errorf("%w, got %T", ErrInvalidPreferences, raw)
	}
}

func fromAnyMap(m map[string]any) Preferences {
	p := Preferences{
		Genres:            stringValue(m["genres"]),
		Mood:              stringValue(m["mood"]),
		Length:            stringValue(m["length"]),
		ReleasePreference: stringValue(m["release_preference"]),
	}

	switch fav := m["favorite_books"].(type) {
	case []string:
		p.FavoriteBooks = fav
	case []any:
		for _, item := range fav {
			if s, ok := item.(string); ok {
				p.FavoriteBooks = append(p.FavoriteBooks, s)
			}
		}
	}

	return p
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
