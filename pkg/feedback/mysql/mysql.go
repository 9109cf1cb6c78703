package mysql

import (
	"fmt"

	gormfb "github.com/barekit/biblio/pkg/feedback/gorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// New creates a new MySQL feedback store.
func New(dsn string) (*gormfb.Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return gormfb.New(db)
}
