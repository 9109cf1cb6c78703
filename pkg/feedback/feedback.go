// Package feedback stores per-user like/dislike judgments on book titles.
//
// Each (user, title) pair holds at most one judgment. Submitting a judgment
// drives a small state machine:
//
//	absent   --like-->    liked      absent   --dislike--> disliked
//	liked    --like-->    absent     disliked --dislike--> absent
//	liked    --dislike--> disliked   disliked --like-->    liked
//	any      --other-->   absent
//
// Repeating a judgment toggles it off; switching updates it in place; any
// unrecognized value clears the entry. Implementations must apply the
// transition as a single atomic read-modify-write per (user, title) key.
package feedback

import "context"

// Feedback is a user's judgment on a book title.
type Feedback string

const (
	Like    Feedback = "like"
	Dislike Feedback = "dislike"
)

// Valid reports whether f is a recognized judgment. Submitting an invalid
// value is treated as an explicit clear request.
func (f Feedback) Valid() bool {
	return f == Like || f == Dislike
}

// Store persists feedback judgments.
type Store interface {
	// Submit applies one state-machine transition for (user, title).
	Submit(ctx context.Context, user, title string, fb Feedback) error
	// Liked returns the titles the user has liked.
	Liked(ctx context.Context, user string) ([]string, error)
	// Disliked returns the titles the user has disliked.
	Disliked(ctx context.Context, user string) ([]string, error)
}
