package mysql

import (
	"fmt"

	gormhist "github.com/barekit/biblio/pkg/history/gorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// New creates a new MySQL history store.
func New(dsn string) (*gormhist.Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return gormhist.New(db)
}
