package sqlite

import (
	"fmt"

	gormfb "github.com/barekit/biblio/pkg/feedback/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New creates a new SQLite feedback store.
func New(dsn string) (*gormfb.Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return gormfb.New(db)
}
