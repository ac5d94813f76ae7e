package reconcile

import (
	"sort"
	"strings"
	"time"

	"inventory-reconciler/core/exclusion"
	"inventory-reconciler/core/inventory"
)

// Diff compares two snapshots. The chronologically earlier one is always
// treated as older, whatever the argument order; equal timestamps fall back
// to the id.
//
// The summary covers every item. Filtering, sorting and the row cap only
// shape Rows.
func Diff(a, b inventory.Snapshot, opts DiffOptions) *DiffResult {
	older, newer := order(a, b)

	oldIndex := index(older.Items)
	newIndex := index(newer.Items)

	rows := make([]DiffRow, 0, len(newIndex)+len(oldIndex))
	var summary DiffSummary

	for id, cur := range newIndex {
		prev, existed := oldIndex[id]
		row := DiffRow{ItemID: id, DisplayName: cur.DisplayName, NewQty: cur.Quantity}
		if !existed {
			row.Type = DiffNew
			row.Change = cur.Quantity
			summary.New++
			summary.TotalAdded += cur.Quantity
			rows = append(rows, row)
			continue
		}

		row.OldQty = prev.Quantity
		row.Change = cur.Quantity - prev.Quantity
		if row.DisplayName == "" {
			row.DisplayName = prev.DisplayName
		}
		switch {
		case row.Change < 0:
			row.Type = DiffDecreased
			summary.Decreased++
			summary.TotalSold += -row.Change
		case row.Change > 0:
			row.Type = DiffIncreased
			summary.Increased++
			summary.TotalAdded += row.Change
		default:
			row.Type = DiffUnchanged
			summary.Unchanged++
		}
		rows = append(rows, row)
	}

	for id, prev := range oldIndex {
		if _, ok := newIndex[id]; ok {
			continue
		}
		rows = append(rows, DiffRow{
			ItemID:      id,
			DisplayName: prev.DisplayName,
			Type:        DiffRemoved,
			OldQty:      prev.Quantity,
			Change:      -prev.Quantity,
		})
		summary.Removed++
		summary.TotalSold += prev.Quantity
	}

	rows = filterRows(rows, opts)
	sortRows(rows, opts.Sort)

	result := &DiffResult{
		Older:       refOf(older),
		Newer:       refOf(newer),
		Summary:     summary,
		MatchedRows: len(rows),
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultDiffLimit
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		result.Truncated = true
	}
	result.Rows = rows
	return result
}

// LiveSnapshot wraps the live inventory as an unsaved snapshot so it can be
// diffed against a stored one.
func LiveSnapshot(items []inventory.Item, now time.Time) inventory.Snapshot {
	return inventory.Snapshot{
		ID:        LiveID,
		Label:     LiveID,
		TakenAt:   now,
		ItemCount: len(items),
		Items:     items,
	}
}

func order(a, b inventory.Snapshot) (older, newer inventory.Snapshot) {
	if a.TakenAt.After(b.TakenAt) || (a.TakenAt.Equal(b.TakenAt) && a.ID > b.ID) {
		return b, a
	}
	return a, b
}

// index keys items by id; a later duplicate wins.
func index(items []inventory.Item) map[string]inventory.Item {
	m := make(map[string]inventory.Item, len(items))
	for _, it := range items {
		m[it.ItemID] = it
	}
	return m
}

func filterRows(rows []DiffRow, opts DiffOptions) []DiffRow {
	if len(opts.Types) == 0 && strings.TrimSpace(opts.Search) == "" {
		return rows
	}

	types := make(map[DiffType]bool, len(opts.Types))
	for _, t := range opts.Types {
		types[t] = true
	}
	search := exclusion.Compile([]string{opts.Search})

	out := rows[:0]
	for _, r := range rows {
		if len(types) > 0 && !types[r.Type] {
			continue
		}
		if search.Len() > 0 && !search.Test(r.ItemID, r.DisplayName) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sortRows(rows []DiffRow, key SortKey) {
	less := func(i, j int) bool { return rows[i].ItemID < rows[j].ItemID }

	switch key {
	case SortAbsChange:
		sort.SliceStable(rows, func(i, j int) bool {
			ai, aj := abs(rows[i].Change), abs(rows[j].Change)
			if ai != aj {
				return ai > aj
			}
			return less(i, j)
		})
	case SortItemID:
		sort.SliceStable(rows, less)
	case SortName:
		sort.SliceStable(rows, func(i, j int) bool {
			ni, nj := strings.ToLower(rows[i].DisplayName), strings.ToLower(rows[j].DisplayName)
			if ni != nj {
				return ni < nj
			}
			return less(i, j)
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Change != rows[j].Change {
				return rows[i].Change < rows[j].Change
			}
			return less(i, j)
		})
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
