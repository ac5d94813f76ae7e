package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"inventory-reconciler/core/fieldmap"
	"inventory-reconciler/core/inventory"
)

// Export writes items as comma-separated text through the inverse field
// mapping. Parsing the output reproduces the items apart from timestamps
// and row numbers.
func Export(w io.Writer, items []inventory.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fieldmap.Headers()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, item := range items {
		if err := cw.Write(fieldmap.Record(fieldmap.ToRow(item))); err != nil {
			return fmt.Errorf("failed to write item %s: %w", item.ItemID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
