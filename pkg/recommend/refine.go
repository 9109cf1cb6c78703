package recommend

import (
	"context"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/feedback"
)

// Refiner reorders and filters candidates using stored feedback: liked
// titles are promoted, disliked titles removed.
type Refiner struct {
	store feedback.Store
}

// NewRefiner creates a new Refiner.
func NewRefiner(store feedback.Store) *Refiner {
	return &Refiner{store: store}
}

// Refine stable-partitions candidates so liked titles come first, keeping
// relative order within each partition, then drops disliked titles. An
// empty user is an identity pass.
func (r *Refiner) Refine(ctx context.Context, user string, candidates []books.Candidate) ([]books.Candidate, error) {
	if user == "" || r.store == nil {
		return candidates, nil
	}

	liked, err := r.store.Liked(ctx, user)
	if err != nil {
		return nil, err
	}
	disliked, err := r.store.Disliked(ctx, user)
	if err != nil {
		return nil, err
	}

	return refine(candidates, toSet(liked), toSet(disliked)), nil
}

// refine applies the partition and filter. It is a stable partition by
// liked membership, not a full re-sort.
func refine(candidates []books.Candidate, liked, disliked map[string]bool) []books.Candidate {
	result := make([]books.Candidate, 0, len(candidates))
	var rest []books.Candidate

	for _, c := range candidates {
		if disliked[c.Title] {
			continue
		}
		if liked[c.Title] {
			result = append(result, c)
		} else {
			rest = append(rest, c)
		}
	}

	return append(result, rest...)
}

func toSet(titles []string) map[string]bool {
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[t] = true
	}
	return set
}
