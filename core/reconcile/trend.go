package reconcile

import (
	"sort"

	"inventory-reconciler/core/inventory"
)

// Trend joins snapshots on item id, oldest first.
//
// Every item seen in any snapshot gets one row. Its quantity sequence holds
// nil where the item was not observed; absence is never read as zero.
func Trend(snapshots []inventory.Snapshot) *TrendResult {
	ordered := make([]inventory.Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].TakenAt.Equal(ordered[j].TakenAt) {
			return ordered[i].TakenAt.Before(ordered[j].TakenAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	result := &TrendResult{
		Snapshots: make([]SnapshotRef, len(ordered)),
		Rows:      []TrendRow{},
	}
	rows := make(map[string]*TrendRow)

	for col, snap := range ordered {
		result.Snapshots[col] = refOf(snap)
		for id, item := range index(snap.Items) {
			row, ok := rows[id]
			if !ok {
				row = &TrendRow{ItemID: id, Quantities: make([]*int, len(ordered))}
				rows[id] = row
			}
			qty := item.Quantity
			row.Quantities[col] = &qty
			if item.DisplayName != "" {
				row.DisplayName = item.DisplayName
			}
		}
	}

	for _, row := range rows {
		first, last := -1, -1
		for i, q := range row.Quantities {
			if q == nil {
				continue
			}
			if first < 0 {
				first = i
			}
			last = i
		}
		row.FirstQty = *row.Quantities[first]
		row.LastQty = *row.Quantities[last]
		row.TotalChange = row.LastQty - row.FirstQty
		result.Rows = append(result.Rows, *row)
	}

	sort.Slice(result.Rows, func(i, j int) bool {
		return result.Rows[i].ItemID < result.Rows[j].ItemID
	})
	return result
}
