package store

import (
	"fmt"

	"inventory-reconciler/core/inventory"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables used by the GORM stores.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&inventory.Item{}, &inventory.Snapshot{}, &inventory.Transaction{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
