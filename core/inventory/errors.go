package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every NotFoundError through errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a record absent from a store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RowError describes one problem with one input row.
type RowError struct {
	Row     int    `json:"row"`
	ItemID  string `json:"item_id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (r RowError) String() string {
	if r.ItemID != "" {
		return fmt.Sprintf("row %d (%s): %s: %s", r.Row, r.ItemID, r.Field, r.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", r.Row, r.Field, r.Message)
}

// ValidationError collects every row-level failure of a single ingest.
type ValidationError struct {
	Errors []RowError
}

func (e *ValidationError) Error() string {
	const maxShown = 5
	parts := make([]string, 0, maxShown)
	for i, re := range e.Errors {
		if i == maxShown {
			break
		}
		parts = append(parts, re.String())
	}
	msg := fmt.Sprintf("validation failed with %d error(s): %s", len(e.Errors), strings.Join(parts, "; "))
	if len(e.Errors) > maxShown {
		msg += fmt.Sprintf("; and %d more", len(e.Errors)-maxShown)
	}
	return msg
}

// PartialFailureError reports a replace-mode merge that cleared the store
// and then failed before every item was inserted. The store may be empty or
// partially populated.
type PartialFailureError struct {
	Cleared  bool
	Inserted int
	Total    int
	Cause    error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("replace merge incomplete: cleared=%t inserted %d of %d: %v", e.Cleared, e.Inserted, e.Total, e.Cause)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}
