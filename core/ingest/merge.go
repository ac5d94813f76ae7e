package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/store"

	"github.com/google/uuid"
)

// Merge writes parsed items into the store under the given policy.
//
// Replace mode is fatal on any failure. When the store implements
// store.Replacer the new set is swapped in atomically; otherwise the store is
// cleared and refilled item by item, and a failure after the clear is
// reported as *inventory.PartialFailureError.
//
// Update mode overwrites only the quantity of existing items and inserts
// unknown ones. Per-item failures are collected and never abort the rest.
// When the store implements store.Ledger every quantity it changes is logged
// as an import transaction in the same write.
func Merge(ctx context.Context, items []inventory.Item, dst store.ItemStore, mode Mode) (*MergeResult, error) {
	switch mode {
	case ModeReplace:
		return mergeReplace(ctx, items, dst)
	case ModeUpdate:
		return mergeUpdate(ctx, items, dst)
	default:
		return nil, fmt.Errorf("unknown merge mode: %s", mode)
	}
}

func mergeReplace(ctx context.Context, items []inventory.Item, s store.ItemStore) (*MergeResult, error) {
	result := &MergeResult{Mode: ModeReplace}

	if replacer, ok := s.(store.Replacer); ok {
		if err := replacer.ReplaceAll(ctx, items); err != nil {
			return result, fmt.Errorf("failed to replace inventory: %w", err)
		}
		result.Imported = len(items)
		result.Atomic = true
		return result, nil
	}

	// Fallback to clear-then-insert
	if err := s.Clear(ctx); err != nil {
		return result, fmt.Errorf("failed to clear inventory: %w", err)
	}
	for _, item := range items {
		if err := s.Set(ctx, item); err != nil {
			result.Failed = len(items) - result.Imported
			result.Failures = append(result.Failures, ItemFailure{ItemID: item.ItemID, Error: err.Error()})
			return result, &inventory.PartialFailureError{
				Cleared:  true,
				Inserted: result.Imported,
				Total:    len(items),
				Cause:    err,
			}
		}
		result.Imported++
	}
	return result, nil
}

func mergeUpdate(ctx context.Context, items []inventory.Item, s store.ItemStore) (*MergeResult, error) {
	result := &MergeResult{Mode: ModeUpdate}
	ledger, logged := s.(store.Ledger)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		qty := item.Quantity
		patch := inventory.ItemPatch{Quantity: &qty}
		var err error
		if logged {
			err = updateLogged(ctx, s, ledger, item, patch)
		} else {
			err = s.Update(ctx, item.ItemID, patch)
		}
		switch {
		case err == nil:
			result.Updated++
			continue
		case !errors.Is(err, inventory.ErrNotFound):
			result.fail(item.ItemID, err)
			continue
		}

		if err := s.Set(ctx, item); err != nil {
			result.fail(item.ItemID, err)
			continue
		}
		result.Imported++
	}
	return result, nil
}

// updateLogged overwrites the quantity of an existing item and records the
// difference as an import transaction. Unchanged quantities log nothing.
func updateLogged(ctx context.Context, s store.ItemStore, ledger store.Ledger, item inventory.Item, patch inventory.ItemPatch) error {
	current, err := s.Get(ctx, item.ItemID)
	if err != nil {
		return err
	}
	delta := item.Quantity - current.Quantity
	if delta == 0 {
		return s.Update(ctx, item.ItemID, patch)
	}

	at := item.UpdatedAt
	if at.IsZero() {
		at = time.Now()
	}
	return ledger.Move(ctx, item.ItemID, patch, &inventory.Transaction{
		ID:        uuid.NewString(),
		ItemID:    item.ItemID,
		Delta:     delta,
		Type:      inventory.TransactionImport,
		Note:      "feed import",
		CreatedAt: at,
	})
}

func (r *MergeResult) fail(id string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, ItemFailure{ItemID: id, Error: err.Error()})
}
