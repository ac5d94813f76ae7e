package store

import (
	"context"
	"errors"
	"fmt"

	"inventory-reconciler/core/inventory"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertBatchSize bounds the rows per INSERT statement during bulk writes.
const insertBatchSize = 200

// GormItemStore implements ItemStore, Replacer and Ledger on a GORM connection.
type GormItemStore struct {
	db *gorm.DB
}

// NewGormItemStore creates a new item store.
func NewGormItemStore(db *gorm.DB) *GormItemStore {
	return &GormItemStore{db: db}
}

// GetAll returns every item ordered by id.
func (s *GormItemStore) GetAll(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	if err := s.db.WithContext(ctx).Order("item_id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	return items, nil
}

// Get returns one item.
func (s *GormItemStore) Get(ctx context.Context, id string) (*inventory.Item, error) {
	var item inventory.Item
	err := s.db.WithContext(ctx).Where("item_id = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &inventory.NotFoundError{Kind: "item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %s: %w", id, err)
	}
	return &item, nil
}

// Set upserts the full item record.
func (s *GormItemStore) Set(ctx context.Context, item inventory.Item) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.ItemID, err)
	}
	return nil
}

// Update applies patch to an existing item inside a transaction so that
// the existence check and the write see the same row.
func (s *GormItemStore) Update(ctx context.Context, id string, patch inventory.ItemPatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateItem(tx, id, patch)
	})
}

// Move applies patch and appends record in one transaction; if either write
// fails neither is kept.
func (s *GormItemStore) Move(ctx context.Context, id string, patch inventory.ItemPatch, record *inventory.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateItem(tx, id, patch); err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to append transaction for %s: %w", id, err)
		}
		return nil
	})
}

func updateItem(tx *gorm.DB, id string, patch inventory.ItemPatch) error {
	var count int64
	if err := tx.Model(&inventory.Item{}).Where("item_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check item %s: %w", id, err)
	}
	if count == 0 {
		return &inventory.NotFoundError{Kind: "item", ID: id}
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	if err := tx.Model(&inventory.Item{}).Where("item_id = ?", id).Updates(cols).Error; err != nil {
		return fmt.Errorf("failed to update item %s: %w", id, err)
	}
	return nil
}

// Delete removes one item.
func (s *GormItemStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("item_id = ?", id).Delete(&inventory.Item{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &inventory.NotFoundError{Kind: "item", ID: id}
	}
	return nil
}

// Clear removes every item.
func (s *GormItemStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&inventory.Item{}).Error; err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return nil
}

// ReplaceAll swaps the full item set in a single transaction. On failure the
// previous inventory is left untouched.
func (s *GormItemStore) ReplaceAll(ctx context.Context, items []inventory.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&inventory.Item{}).Error; err != nil {
			return fmt.Errorf("failed to clear items: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&items, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert items: %w", err)
		}
		return nil
	})
}
