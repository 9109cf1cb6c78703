package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/barekit/biblio/pkg/feedback"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// A pooled second connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	s, err := New(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func state(t *testing.T, s *Store, user, title string) string {
	t.Helper()
	liked, err := s.Liked(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range liked {
		if l == title {
			return "liked"
		}
	}
	disliked, err := s.Disliked(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range disliked {
		if d == title {
			return "disliked"
		}
	}
	return "absent"
}

func TestSubmit_StateMachine(t *testing.T) {
	tests := []struct {
		name  string
		steps []feedback.Feedback
		want  string
	}{
		{"like creates", []feedback.Feedback{feedback.Like}, "liked"},
		{"dislike creates", []feedback.Feedback{feedback.Dislike}, "disliked"},
		{"like twice toggles off", []feedback.Feedback{feedback.Like, feedback.Like}, "absent"},
		{"dislike twice toggles off", []feedback.Feedback{feedback.Dislike, feedback.Dislike}, "absent"},
		{"like then dislike updates", []feedback.Feedback{feedback.Like, feedback.Dislike}, "disliked"},
		{"dislike then like updates", []feedback.Feedback{feedback.Dislike, feedback.Like}, "liked"},
		{"invalid clears liked", []feedback.Feedback{feedback.Like, "meh"}, "absent"},
		{"invalid on absent is noop", []feedback.Feedback{"meh"}, "absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			for _, fb := range tt.steps {
				if err := s.Submit(context.Background(), "u", "Dune", fb); err != nil {
					t.Fatalf("Submit failed: %v", err)
				}
			}
			if got := state(t, s, "u", "Dune"); got != tt.want {
				t.Errorf("final state = %s, want %s", got, tt.want)
			}
		})
	}
}

// A clear must free the unique (user, title) slot so a later create of the
// same key succeeds rather than colliding with a leftover row.
func TestSubmit_ToggleOffThenRecreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, fb := range []feedback.Feedback{feedback.Like, feedback.Like, feedback.Like} {
		if err := s.Submit(ctx, "u", "Dune", fb); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	if got := state(t, s, "u", "Dune"); got != "liked" {
		t.Errorf("final state = %s, want liked", got)
	}

	var count int64
	if err := s.db.Model(&EntryModel{}).Where("user_name = ? AND book_title = ?", "u", "Dune").Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("rows for (u, Dune) = %d, want 1", count)
	}
}

// Submit reruns once when a concurrent create wins the unique index race,
// landing in the toggle/update path instead of returning the constraint
// error. The driver must translate the constraint violation into
// gorm.ErrDuplicatedKey for the rerun to trigger.
func TestSubmit_RetriesOnDuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.db.Create(&EntryModel{UserName: "u", BookTitle: "Dune", Feedback: string(feedback.Like)}).Error; err != nil {
		t.Fatal(err)
	}
	err := s.db.Create(&EntryModel{UserName: "u", BookTitle: "Dune", Feedback: string(feedback.Like)}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate create error = %v, want gorm.ErrDuplicatedKey", err)
	}

	// The losing submitter's rerun sees the committed row and toggles it.
	if err := s.Submit(ctx, "u", "Dune", feedback.Like); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := state(t, s, "u", "Dune"); got != "absent" {
		t.Errorf("final state = %s, want absent", got)
	}
}

func TestSubmit_IsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Submit(ctx, "alice", "Dune", feedback.Like); err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(ctx, "bob", "Dune", feedback.Dislike); err != nil {
		t.Fatal(err)
	}

	if got := state(t, s, "alice", "Dune"); got != "liked" {
		t.Errorf("alice: %s", got)
	}
	if got := state(t, s, "bob", "Dune"); got != "disliked" {
		t.Errorf("bob: %s", got)
	}
}

func TestTitles_Sorted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, title := range []string{"Zorba", "Anathem", "Middlemarch"} {
		if err := s.Submit(ctx, "u", title, feedback.Like); err != nil {
			t.Fatal(err)
		}
	}

	liked, err := s.Liked(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Anathem", "Middlemarch", "Zorba"}
	if len(liked) != len(want) {
		t.Fatalf("got %v, want %v", liked, want)
	}
	for i := range want {
		if liked[i] != want[i] {
			t.Fatalf("got %v, want %v", liked, want)
		}
	}
}
