// Package gorm implements feedback.Store on any GORM-supported database.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barekit/biblio/pkg/feedback"
	"gorm.io/gorm"
)

// Store implements feedback.Store using GORM.
type Store struct {
	db *gorm.DB
}

// EntryModel represents the database schema for a feedback entry. No soft
// deletes: a toggled-off judgment must free the unique (user, title) slot
// for the next create.
type EntryModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserName  string `gorm:"uniqueIndex:idx_user_title"`
	BookTitle string `gorm:"uniqueIndex:idx_user_title"`
	Feedback  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name.
func (EntryModel) TableName() string {
	return "book_feedback"
}

// New creates a new Store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Submit applies one state-machine transition inside a transaction. The
// unique (user, title) index keeps concurrent creates from producing
// duplicate rows; when this transaction loses that race it reruns once
// against the committed row, landing in the toggle/update path instead of
// surfacing the constraint error.
func (s *Store) Submit(ctx context.Context, user, title string, fb feedback.Feedback) error {
	err := s.submit(ctx, user, title, fb)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = s.submit(ctx, user, title, fb)
	}
	return err
}

func (s *Store) submit(ctx context.Context, user, title string, fb feedback.Feedback) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current EntryModel
		err := tx.Where("user_name = ? AND book_title = ?", user, title).First(&current).Error
		exists := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if !fb.Valid() {
			if exists {
				return tx.Delete(&current).Error
			}
			return nil
		}

		switch {
		case !exists:
			return tx.Create(&EntryModel{UserName: user, BookTitle: title, Feedback: string(fb)}).Error
		case current.Feedback == string(fb):
			return tx.Delete(&current).Error
		default:
			return tx.Model(&current).Update("feedback", string(fb)).Error
		}
	})
}

func (s *Store) Liked(ctx context.Context, user string) ([]string, error) {
	return s.titles(ctx, user, feedback.Like)
}

func (s *Store) Disliked(ctx context.Context, user string) ([]string, error) {
	return s.titles(ctx, user, feedback.Dislike)
}

func (s *Store) titles(ctx context.Context, user string, fb feedback.Feedback) ([]string, error) {
	var titles []string
	err := s.db.WithContext(ctx).
		Model(&EntryModel{}).
		Where("user_name = ? AND feedback = ?", user, string(fb)).
		Order("book_title asc").
		Pluck("book_title", &titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}
