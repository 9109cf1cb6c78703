// Package gorm implements history.Store on any GORM-supported database.
// Preferences and recommendations are stored as JSON blobs, the embedding
// as packed little-endian float32 bytes.
package gorm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/history"
	"github.com/barekit/biblio/pkg/similarity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store implements history.Store using GORM.
type Store struct {
	db *gorm.DB
}

// EntryModel represents the database schema for a history entry.
type EntryModel struct {
	ID              string `gorm:"primaryKey"`
	UserName        string `gorm:"index"`
	Preferences     []byte
	Recommendations []byte
	Embedding       []byte
	CreatedAt       time.Time
}

// TableName overrides the table name.
func (EntryModel) TableName() string {
	return "search_history"
}

// New creates a new Store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Append(ctx context.Context, entry history.Entry) error {
	model, err := toModel(entry)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *Store) Recent(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	var models []EntryModel
	err := s.db.WithContext(ctx).
		Where("user_name = ?", user).
		Order("created_at desc").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]history.Entry, len(models))
	for i, m := range models {
		entry, err := fromModel(m)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return entries, nil
}

func toModel(entry history.Entry) (EntryModel, error) {
	prefs, err := json.Marshal(entry.Preferences)
	if err != nil {
		return EntryModel{}, fmt.Errorf("failed to marshal preferences: %w", err)
	}
	recs, err := json.Marshal(entry.Recommendations)
	if err != nil {
		return EntryModel{}, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return EntryModel{
		ID:              id,
		UserName:        entry.User,
		Preferences:     prefs,
		Recommendations: recs,
		Embedding:       similarity.Pack(entry.Embedding),
		CreatedAt:       createdAt,
	}, nil
}

func fromModel(m EntryModel) (history.Entry, error) {
	entry := history.Entry{
		ID:        m.ID,
		User:      m.UserName,
		Embedding: similarity.Unpack(m.Embedding),
		CreatedAt: m.CreatedAt,
	}

	if err := json.Unmarshal(m.Preferences, &entry.Preferences); err != nil {
		return history.Entry{}, fmt.Errorf("failed to unmarshal preferences for entry %s: %w", m.ID, err)
	}
	if len(m.Recommendations) > 0 {
		var recs []books.Book
		if err := json.Unmarshal(m.Recommendations, &recs); err != nil {
			return history.Entry{}, fmt.Errorf("failed to unmarshal recommendations for entry %s: %w", m.ID, err)
		}
		entry.Recommendations = recs
	}

	return entry, nil
}
