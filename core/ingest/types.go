package ingest

import (
	"fmt"
	"strings"
	"time"

	"inventory-reconciler/core/inventory"
)

// Options configures a single parse. Nothing is read from ambient state.
type Options struct {
	// Exclusions are literal, case-insensitive patterns; matching rows are dropped.
	Exclusions []string
	// DefaultUnit is applied to rows without a unit. Empty means inventory.DefaultUnit.
	DefaultUnit string
	// Now stamps ImportedAt and UpdatedAt. Zero means time.Now().
	Now time.Time
	// Delimiter forces the field separator. Zero means auto-detect from the header line.
	Delimiter rune
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) unit() string {
	if o.DefaultUnit == "" {
		return inventory.DefaultUnit
	}
	return o.DefaultUnit
}

// Meta summarises a parse.
type Meta struct {
	TotalRows    int                  `json:"total_rows"`
	ValidRows    int                  `json:"valid_rows"`
	ExcludedRows int                  `json:"excluded_rows"`
	EmptyRows    int                  `json:"empty_rows"`
	Errors       []inventory.RowError `json:"errors"`
	Warnings     []inventory.RowError `json:"warnings"`
	Excluded     []ExcludedRow        `json:"excluded,omitempty"`
}

// ExcludedRow records a row dropped by the exclusion set.
type ExcludedRow struct {
	Row     int    `json:"row"`
	ItemID  string `json:"item_id"`
	Pattern string `json:"pattern"`
}

// Result is the outcome of a parse: the canonical items plus metadata.
type Result struct {
	Items []inventory.Item `json:"items"`
	Meta  Meta             `json:"meta"`
}

// Mode selects the merge policy.
type Mode string

const (
	// ModeReplace discards the existing inventory before importing.
	ModeReplace Mode = "replace"
	// ModeUpdate overwrites only the quantity of existing items and inserts new ones.
	ModeUpdate Mode = "update"
)

// ParseMode validates a user-supplied merge mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeReplace, ModeUpdate:
		return m, nil
	case "":
		return ModeUpdate, nil
	default:
		return "", fmt.Errorf("unknown merge mode: %s", s)
	}
}

// ItemFailure records one item that could not be merged.
type ItemFailure struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// MergeResult counts what a merge did.
type MergeResult struct {
	Mode     Mode          `json:"mode"`
	Imported int           `json:"imported"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Failures []ItemFailure `json:"failures,omitempty"`
	// Atomic is true when the replace was performed as a single swap.
	Atomic bool `json:"atomic"`
}

// Report combines parse metadata with the merge outcome.
type Report struct {
	Meta  Meta         `json:"meta"`
	Merge *MergeResult `json:"merge,omitempty"`
}

// Pair is one (text, quantity) reading produced by an external OCR step.
type Pair struct {
	Text     string `json:"text"`
	Quantity int    `json:"quantity"`
}
