package mssql

import (
	"fmt"

	gormfb "github.com/barekit/biblio/pkg/feedback/gorm"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// New creates a new MSSQL feedback store.
func New(dsn string) (*gormfb.Store, error) {
	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open mssql: %w", err)
	}
	return gormfb.New(db)
}
