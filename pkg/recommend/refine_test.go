package recommend

import (
	"context"
	"testing"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/feedback/inmemory"
)

func candidateTitles(candidates []books.Candidate) []string {
	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.Title
	}
	return titles
}

func TestRefine_PromotesLikedAndDropsDisliked(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	if err := store.Submit(ctx, "alice", "Dune", "like"); err != nil {
		t.Fatal(err)
	}
	if err := store.Submit(ctx, "alice", "Twilight", "dislike"); err != nil {
		t.Fatal(err)
	}

	candidates := []books.Candidate{
		{Title: "Hyperion"},
		{Title: "Twilight"},
		{Title: "Dune"},
		{Title: "Neuromancer"},
	}

	refined, err := NewRefiner(store).Refine(ctx, "alice", candidates)
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}

	want := []string{"Dune", "Hyperion", "Neuromancer"}
	got := candidateTitles(refined)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRefine_StablePartition(t *testing.T) {
	// Two liked and two unliked titles: relative order inside each
	// partition must survive.
	liked := map[string]bool{"B": true, "D": true}

	refined := refine([]books.Candidate{
		{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"},
	}, liked, nil)

	want := []string{"B", "D", "A", "C"}
	got := candidateTitles(refined)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRefine_MonotonicPromotion(t *testing.T) {
	candidates := []books.Candidate{
		{Title: "A"}, {Title: "B"}, {Title: "L"}, {Title: "C"},
	}

	refined := refine(candidates, map[string]bool{"L": true}, nil)

	likedPos := -1
	for i, c := range refined {
		if c.Title == "L" {
			likedPos = i
			break
		}
	}
	if likedPos < 0 {
		t.Fatal("liked title missing from output")
	}
	if likedPos > 2 {
		t.Errorf("liked title at position %d, appeared later than in input (2)", likedPos)
	}
}

func TestRefine_EmptyUserIsIdentity(t *testing.T) {
	store := inmemory.New()
	candidates := []books.Candidate{{Title: "A"}, {Title: "B"}}

	refined, err := NewRefiner(store).Refine(context.Background(), "", candidates)
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if len(refined) != 2 || refined[0].Title != "A" || refined[1].Title != "B" {
		t.Errorf("identity pass changed candidates: %v", refined)
	}
}
