package reconcile

import (
	"fmt"
	"strings"
	"time"

	"inventory-reconciler/core/inventory"
)

// DefaultDiffLimit caps the rows returned by Diff when no limit is given.
const DefaultDiffLimit = 1000

// LiveID identifies the unsaved snapshot that wraps the live inventory.
const LiveID = "live"

// ItemState is an item together with its derived reconciliation values.
type ItemState struct {
	inventory.Item

	// Status is the stock-urgency classification.
	Status inventory.Status `json:"status"`

	// OffBooks is the number of labeled units not backed by recorded stock.
	OffBooks int `json:"off_books"`
}

// SnapshotRef identifies one side of a diff or one column of a trend.
type SnapshotRef struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	TakenAt   time.Time `json:"taken_at"`
	ItemCount int       `json:"item_count"`
}

func refOf(s inventory.Snapshot) SnapshotRef {
	return SnapshotRef{ID: s.ID, Label: s.Label, TakenAt: s.TakenAt, ItemCount: s.ItemCount}
}

// DiffType classifies how an item moved between two snapshots.
type DiffType string

const (
	DiffNew       DiffType = "new"
	DiffRemoved   DiffType = "removed"
	DiffIncreased DiffType = "increased"
	DiffDecreased DiffType = "decreased"
	DiffUnchanged DiffType = "unchanged"
)

// ParseDiffType validates a user-supplied diff type.
func ParseDiffType(s string) (DiffType, error) {
	switch t := DiffType(strings.ToLower(strings.TrimSpace(s))); t {
	case DiffNew, DiffRemoved, DiffIncreased, DiffDecreased, DiffUnchanged:
		return t, nil
	default:
		return "", fmt.Errorf("unknown diff type: %s", s)
	}
}

// DiffRow is the movement of one item between the older and newer snapshot.
type DiffRow struct {
	ItemID      string   `json:"item_id"`
	DisplayName string   `json:"display_name"`
	Type        DiffType `json:"type"`
	OldQty      int      `json:"old_qty"`
	NewQty      int      `json:"new_qty"`
	Change      int      `json:"change"`
}

// DiffSummary aggregates the full, unfiltered diff.
type DiffSummary struct {
	Decreased  int `json:"decreased"`
	Increased  int `json:"increased"`
	New        int `json:"new"`
	Removed    int `json:"removed"`
	Unchanged  int `json:"unchanged"`
	TotalSold  int `json:"total_sold"`
	TotalAdded int `json:"total_added"`
}

// SortKey orders diff rows.
type SortKey string

const (
	// SortChange puts the largest decreases first.
	SortChange SortKey = "change"
	// SortAbsChange puts the largest movements first, either direction.
	SortAbsChange SortKey = "abs_change"
	SortItemID    SortKey = "item_id"
	SortName      SortKey = "name"
)

// ParseSortKey validates a user-supplied sort key. Empty means SortChange.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortChange, nil
	case SortChange, SortAbsChange, SortItemID, SortName:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key: %s", s)
	}
}

// DiffOptions narrows the displayed rows. The summary ignores it.
type DiffOptions struct {
	// Types keeps only rows of these types. Empty keeps all.
	Types []DiffType
	// Search keeps rows whose id or name contains it, case-insensitively.
	Search string
	Sort   SortKey
	// Limit caps the returned rows. Zero means DefaultDiffLimit, negative means no cap.
	Limit int
}

// Key returns a stable string for use in cache keys.
func (o DiffOptions) Key() string {
	types := make([]string, len(o.Types))
	for i, t := range o.Types {
		types[i] = string(t)
	}
	return fmt.Sprintf("%s|%s|%s|%d", strings.Join(types, ","), strings.ToLower(o.Search), o.Sort, o.Limit)
}

// DiffResult is the outcome of comparing two snapshots.
type DiffResult struct {
	Older   SnapshotRef `json:"older"`
	Newer   SnapshotRef `json:"newer"`
	Rows    []DiffRow   `json:"rows"`
	Summary DiffSummary `json:"summary"`
	// MatchedRows counts rows left after filtering, before the cap.
	MatchedRows int  `json:"matched_rows"`
	Truncated   bool `json:"truncated"`
}

// TrendRow is one item's quantity sequence across the trend snapshots.
type TrendRow struct {
	ItemID      string `json:"item_id"`
	DisplayName string `json:"display_name"`
	// Quantities holds one entry per snapshot, nil where the item was not observed.
	Quantities  []*int `json:"quantities"`
	FirstQty    int    `json:"first_qty"`
	LastQty     int    `json:"last_qty"`
	TotalChange int    `json:"total_change"`
}

// TrendResult is a sparse join of several snapshots on item id.
type TrendResult struct {
	Snapshots []SnapshotRef `json:"snapshots"`
	Rows      []TrendRow    `json:"rows"`
}

// VelocityStats summarises stock movement over a trailing window.
type VelocityStats struct {
	Days     int     `json:"days"`
	UnitsOut int     `json:"units_out"`
	UnitsIn  int     `json:"units_in"`
	PerDay   float64 `json:"per_day"`
}
