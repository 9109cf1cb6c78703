package postgres

import (
	"fmt"

	gormfb "github.com/barekit/biblio/pkg/feedback/gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New creates a new Postgres feedback store.
func New(dsn string) (*gormfb.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return gormfb.New(db)
}
