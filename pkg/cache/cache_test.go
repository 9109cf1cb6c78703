package cache

import (
	"strings"
	"testing"

	"github.com/barekit/biblio/pkg/books"
)

func TestKey_Stable(t *testing.T) {
	prefs := books.Preferences{Genres: "sf", Mood: "dark"}
	if Key(prefs) != Key(prefs) {
		t.Error("same preferences produced different keys")
	}
}

func TestKey_Namespaced(t *testing.T) {
	if !strings.HasPrefix(Key(books.Preferences{}), "books:") {
		t.Errorf("key missing namespace prefix: %q", Key(books.Preferences{}))
	}
}

func TestKey_DistinguishesPreferences(t *testing.T) {
	a := Key(books.Preferences{Genres: "sf"})
	b := Key(books.Preferences{Genres: "fantasy"})
	if a == b {
		t.Error("different preferences produced the same key")
	}
}

func TestKey_FavoritesOrderMatters(t *testing.T) {
	// favorite_books is an ordered sequence; reordering it is a
	// different input.
	a := Key(books.Preferences{FavoriteBooks: []string{"Dune", "It"}})
	b := Key(books.Preferences{FavoriteBooks: []string{"It", "Dune"}})
	if a == b {
		t.Error("reordered favorites produced the same key")
	}
}
