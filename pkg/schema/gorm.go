package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all bookkeeping models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&RunLog{},
	}
}

// Migrate runs GORM AutoMigrate to create or update bookkeeping tables.
// The wide table is not a GORM model, its columns come from the catalog.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
