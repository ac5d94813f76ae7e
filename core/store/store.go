package store

import (
	"context"
	"time"

	"inventory-reconciler/core/inventory"
)

// ItemStore is the key-value record store for items, keyed by ItemID.
// Filtering and sorting are the caller's job.
type ItemStore interface {
	// GetAll returns every item.
	GetAll(ctx context.Context) ([]inventory.Item, error)
	// Get returns one item or a *inventory.NotFoundError.
	Get(ctx context.Context, id string) (*inventory.Item, error)
	// Set inserts or fully replaces an item.
	Set(ctx context.Context, item inventory.Item) error
	// Update merges patch onto an existing item and fails if it is absent.
	Update(ctx context.Context, id string, patch inventory.ItemPatch) error
	// Delete removes an item and fails if it is absent.
	Delete(ctx context.Context, id string) error
	// Clear removes every item.
	Clear(ctx context.Context) error
}

// Replacer is implemented by item stores that can swap the full item set
// atomically. Replace-mode merges prefer it over clear-then-insert.
type Replacer interface {
	ReplaceAll(ctx context.Context, items []inventory.Item) error
}

// Ledger is implemented by item stores that share a database with the
// transaction log and can write a quantity change and its log entry as one
// unit.
type Ledger interface {
	Move(ctx context.Context, id string, patch inventory.ItemPatch, record *inventory.Transaction) error
}

// SnapshotStore persists immutable snapshots.
type SnapshotStore interface {
	// Create stores a new snapshot.
	Create(ctx context.Context, snap *inventory.Snapshot) error
	// Get returns a snapshot with its items.
	Get(ctx context.Context, id string) (*inventory.Snapshot, error)
	// List returns snapshot headers (without items), most recent first.
	List(ctx context.Context) ([]inventory.Snapshot, error)
	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error
	// LatestAuto returns the most recent automatic snapshot header, or nil.
	LatestAuto(ctx context.Context) (*inventory.Snapshot, error)
}

// TransactionStore is the append-only transaction log.
type TransactionStore interface {
	// Append records a new transaction.
	Append(ctx context.Context, tx *inventory.Transaction) error
	// List returns every transaction, newest first.
	List(ctx context.Context) ([]inventory.Transaction, error)
	// ListByItem returns an item's transactions, newest first.
	ListByItem(ctx context.Context, itemID string) ([]inventory.Transaction, error)
	// ListByRange returns transactions created in [from, to), newest first.
	ListByRange(ctx context.Context, from, to time.Time) ([]inventory.Transaction, error)
	// Delete removes one transaction by id.
	Delete(ctx context.Context, id string) error
}
