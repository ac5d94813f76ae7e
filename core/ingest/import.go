package ingest

import (
	"context"
	"errors"
	"io"

	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/store"
)

// Import parses r and merges the valid rows into dst.
//
// With strict set, any row error aborts the import before the store is
// touched and the *inventory.ValidationError is returned with the report.
// Otherwise the valid rows are merged and the row errors stay in Meta.
func Import(ctx context.Context, r io.Reader, dst store.ItemStore, opts Options, mode Mode, strict bool) (*Report, error) {
	result, err := Parse(r, opts)
	return apply(ctx, result, err, dst, mode, strict)
}

// ImportPairs is Import for OCR readings.
func ImportPairs(ctx context.Context, pairs []Pair, dst store.ItemStore, opts Options, mode Mode, strict bool) (*Report, error) {
	result, err := FromPairs(pairs, opts)
	return apply(ctx, result, err, dst, mode, strict)
}

func apply(ctx context.Context, result *Result, parseErr error, dst store.ItemStore, mode Mode, strict bool) (*Report, error) {
	if result == nil {
		return nil, parseErr
	}

	report := &Report{Meta: result.Meta}
	if parseErr != nil {
		var verr *inventory.ValidationError
		if !errors.As(parseErr, &verr) || strict {
			return report, parseErr
		}
	}

	merged, err := Merge(ctx, result.Items, dst, mode)
	report.Merge = merged
	if err != nil {
		return report, err
	}
	return report, nil
}
