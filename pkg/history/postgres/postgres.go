// Package postgres implements history.Store on Postgres with pgvector,
// pushing similarity ranking down to the database via the cosine distance
// operator.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/history"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore implements history.Store and history.SimilaritySearcher
// using pgvector.
type PostgresStore struct {
	db *gorm.DB
}

// EntryModel represents the database schema for a history entry.
type EntryModel struct {
	ID              string `gorm:"primaryKey"`
	UserName        string `gorm:"index"`
	Preferences     []byte `gorm:"type:jsonb"`
	Recommendations []byte `gorm:"type:jsonb"`
	// Null when the embedding call failed at append time.
	Embedding *pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt time.Time
}

// TableName overrides the table name.
func (EntryModel) TableName() string {
	return "search_history"
}

// New creates a new PostgresStore.
func New(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Enable pgvector extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Append(ctx context.Context, entry history.Entry) error {
	model, err := toModel(entry)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *PostgresStore) Recent(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	var models []EntryModel
	err := s.db.WithContext(ctx).
		Where("user_name = ?", user).
		Order("created_at desc").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromModels(models)
}

// SearchSimilar ranks the user's embedded entries by cosine distance. The
// pgvector <=> operator returns distance, so ascending order is most
// similar first.
func (s *PostgresStore) SearchSimilar(ctx context.Context, user string, query []float32, k int) ([]history.Entry, error) {
	var models []EntryModel
	err := s.db.WithContext(ctx).
		Where("user_name = ? AND embedding IS NOT NULL", user).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{pgvector.NewVector(query)}}).
		Limit(k).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromModels(models)
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

	model := EntryModel{
		ID:              id,
		UserName:        entry.User,
		Preferences:     prefs,
		Recommendations: recs,
		CreatedAt:       createdAt,
	}
	if len(entry.Embedding) > 0 {
		vec := pgvector.NewVector(entry.Embedding)
		model.Embedding = &vec
	}
	return model, nil
}

func fromModels(models []EntryModel) ([]history.Entry, error) {
	entries := make([]history.Entry, len(models))
	for i, m := range models {
		entry := history.Entry{
			ID:        m.ID,
			User:      m.UserName,
			CreatedAt: m.CreatedAt,
		}
		if m.Embedding != nil {
			entry.Embedding = m.Embedding.Slice()
		}
		if err := json.Unmarshal(m.Preferences, &entry.Preferences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferences for entry %s: %w", m.ID, err)
		}
		if len(m.Recommendations) > 0 {
			var recs []books.Book
			if err := json.Unmarshal(m.Recommendations, &recs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations for entry %s: %w", m.ID, err)
			}
			entry.Recommendations = recs
		}
		entries[i] = entry
	}
	return entries, nil
}
