// Package cache defines the content-addressed result cache for the
// recommendation pipeline.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barekit/biblio/pkg/books"
)

// DefaultTTL is how long a cached recommendation list stays valid.
const DefaultTTL = 6 * time.Hour

// keyPrefix namespaces recommendation entries in shared backends.
const keyPrefix = "books:"

// Cache stores recommendation results keyed by a content hash of the input
// preferences. Entries are immutable once written; a second Set with the
// same key replaces the entry and refreshes its TTL. Expiry is the cache
// layer's responsibility.
type Cache interface {
	// Get returns the cached result for key, or ok=false on a miss.
	Get(ctx context.Context, key string) (result []books.Book, ok bool, err error)
	// Set stores the result under key with the given TTL.
	Set(ctx context.Context, key string, result []books.Book, ttl time.Duration) error
}

// Key derives the cache key for a set of preferences: a sha256 digest of
// their canonical JSON form, namespaced with a fixed prefix. Struct field
// order is fixed, so the serialization is order-independent by construction.
func Key(prefs books.Preferences) string {
	b, err := json.Marshal(prefs)
	if err != nil {
		// Preferences contains only strings and string slices; Marshal
		// cannot fail on it.
		panic(fmt.Sprintf("marshal preferences: %v", err))
	}
	sum := sha256.Sum256(b)
	return keyPrefix + hex.EncodeToString(sum[:])
}
