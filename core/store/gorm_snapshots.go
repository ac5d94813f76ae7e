package store

import (
	"context"
	"errors"
	"fmt"

	"inventory-reconciler/core/inventory"

	"gorm.io/gorm"
)

// snapshotHeaderColumns are loaded when listing, leaving the item payload behind.
var snapshotHeaderColumns = []string{"id", "label", "is_auto", "taken_at", "item_count"}

// GormSnapshotStore implements SnapshotStore on a GORM connection.
type GormSnapshotStore struct {
	db *gorm.DB
}

// NewGormSnapshotStore creates a new snapshot store.
func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{db: db}
}

// Create stores a new snapshot. Existing ids are rejected; snapshots are never overwritten.
func (s *GormSnapshotStore) Create(ctx context.Context, snap *inventory.Snapshot) error {
	if err := s.db.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Get returns a snapshot including its items.
func (s *GormSnapshotStore) Get(ctx context.Context, id string) (*inventory.Snapshot, error) {
	var snap inventory.Snapshot
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &inventory.NotFoundError{Kind: "snapshot", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// List returns snapshot headers, most recent first.
func (s *GormSnapshotStore) List(ctx context.Context) ([]inventory.Snapshot, error) {
	var snaps []inventory.Snapshot
	err := s.db.WithContext(ctx).
		Select(snapshotHeaderColumns).
		Order("taken_at DESC").
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// Delete removes a snapshot.
func (s *GormSnapshotStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&inventory.Snapshot{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &inventory.NotFoundError{Kind: "snapshot", ID: id}
	}
	return nil
}

// LatestAuto returns the newest automatic snapshot header, or nil when none exist.
func (s *GormSnapshotStore) LatestAuto(ctx context.Context) (*inventory.Snapshot, error) {
	var snaps []inventory.Snapshot
	err := s.db.WithContext(ctx).
		Select(snapshotHeaderColumns).
		Where("is_auto = ?", true).
		Order("taken_at DESC").
		Limit(1).
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest automatic snapshot: %w", err)
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}
