package metadata

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/barekit/biblio/pkg/books"
)

// slowClient answers each query after a per-title delay, to exercise order
// preservation under concurrent lookups.
type slowClient struct {
	delays map[string]time.Duration
	fail   map[string]bool
	empty  map[string]bool
}

func (c *slowClient) Lookup(ctx context.Context, query string) (*Volume, error) {
	title, _, _ := strings.Cut(query, " by ")
	if d, ok := c.delays[title]; ok {
		time.Sleep(d)
	}
	if c.fail[title] {
		return nil, errors.New("lookup failed")
	}
	if c.empty[title] {
		return nil, nil
	}
	return &Volume{Title: title, Authors: []string{"Author"}}, nil
}

func TestEnrich_PreservesOrder(t *testing.T) {
	client := &slowClient{delays: map[string]time.Duration{
		"A": 30 * time.Millisecond,
		"B": 1 * time.Millisecond,
		"C": 15 * time.Millisecond,
	}}
	e := NewEnricher(client, WithConcurrency(3))

	result := e.Enrich(context.Background(), []books.Candidate{
		{Title: "A"}, {Title: "B"}, {Title: "C"},
	})

	want := []string{"A", "B", "C"}
	if len(result) != len(want) {
		t.Fatalf("got %d books, want %d", len(result), len(want))
	}
	for i, w := range want {
		if result[i].Title != w {
			t.Errorf("position %d: got %q, want %q", i, result[i].Title, w)
		}
	}
}

func TestEnrich_SkipsFailedLookups(t *testing.T) {
	client := &slowClient{fail: map[string]bool{"B": true}}
	e := NewEnricher(client)

	result := e.Enrich(context.Background(), []books.Candidate{
		{Title: "A"}, {Title: "B"}, {Title: "C"},
	})

	if len(result) != 2 {
		t.Fatalf("got %d books, want 2", len(result))
	}
	if result[0].Title != "A" || result[1].Title != "C" {
		t.Errorf("got %v", result)
	}
}

func TestEnrich_SkipsEmptyResults(t *testing.T) {
	client := &slowClient{empty: map[string]bool{"A": true}}
	e := NewEnricher(client)

	result := e.Enrich(context.Background(), []books.Candidate{
		{Title: "A"}, {Title: "B"},
	})

	if len(result) != 1 || result[0].Title != "B" {
		t.Errorf("got %v", result)
	}
}

func TestEnrich_SentinelWhenNothingFound(t *testing.T) {
	client := &slowClient{fail: map[string]bool{"A": true, "B": true}}
	e := NewEnricher(client)

	result := e.Enrich(context.Background(), []books.Candidate{
		{Title: "A"}, {Title: "B"},
	})

	if len(result) != 1 {
		t.Fatalf("got %d books, want the single sentinel", len(result))
	}
	if result[0].Title != books.NotFound().Title {
		t.Errorf("got %+v, want not-found sentinel", result[0])
	}
}

func TestEnrich_DuplicateTitlesKept(t *testing.T) {
	client := &slowClient{}
	e := NewEnricher(client)

	result := e.Enrich(context.Background(), []books.Candidate{
		{Title: "A"}, {Title: "A"},
	})

	if len(result) != 2 {
		t.Errorf("duplicates must not be deduplicated, got %d books", len(result))
	}
}
