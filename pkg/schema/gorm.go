package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate, parents
// before children so foreign keys resolve during creation.
func AllModels() []any {
	return []any{
		&Artist{},
		&Genre{},
		&Album{},
		&Song{},
		&UserAccount{},
		&Rating{},
		&SongGenre{},
	}
}

// TableNames returns the table names in child-before-parent order,
// the order deletes and truncations must follow.
func TableNames() []string {
	return []string{
		"ratings",
		"song_genres",
		"songs",
		"albums",
		"user_accounts",
		"genres",
		"artists",
	}
}

// Migrate runs GORM AutoMigrate to create or update the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
