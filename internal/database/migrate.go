package database

import (
	"fmt"

	"outfitted/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
// The outfit_items table is created through Outfit.Items.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.Outfit{},
		&models.Favorite{},
	}
}

// Migrate creates or updates tables, unique indexes and foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
