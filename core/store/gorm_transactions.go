package store

import (
	"context"
	"fmt"
	"time"

	"inventory-reconciler/core/inventory"

	"gorm.io/gorm"
)

// GormTransactionStore implements TransactionStore on a GORM connection.
type GormTransactionStore struct {
	db *gorm.DB
}

// NewGormTransactionStore creates a new transaction log.
func NewGormTransactionStore(db *gorm.DB) *GormTransactionStore {
	return &GormTransactionStore{db: db}
}

// Append records a transaction.
func (s *GormTransactionStore) Append(ctx context.Context, tx *inventory.Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to append transaction for %s: %w", tx.ItemID, err)
	}
	return nil
}

// List returns every transaction, newest first.
func (s *GormTransactionStore) List(ctx context.Context) ([]inventory.Transaction, error) {
	return s.find(s.db.WithContext(ctx))
}

// ListByItem returns the transactions of one item, newest first.
func (s *GormTransactionStore) ListByItem(ctx context.Context, itemID string) ([]inventory.Transaction, error) {
	return s.find(s.db.WithContext(ctx).Where("item_id = ?", itemID))
}

// ListByRange returns transactions created in [from, to). A zero bound is open.
func (s *GormTransactionStore) ListByRange(ctx context.Context, from, to time.Time) ([]inventory.Transaction, error) {
	q := s.db.WithContext(ctx)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	return s.find(q)
}

// Delete removes one transaction.
func (s *GormTransactionStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&inventory.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &inventory.NotFoundError{Kind: "transaction", ID: id}
	}
	return nil
}

func (s *GormTransactionStore) find(q *gorm.DB) ([]inventory.Transaction, error) {
	var txs []inventory.Transaction
	if err := q.Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
