package inventory

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &NotFoundError{Kind: "item", ID: "A-1"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, `lookup: item "A-1" not found`, err.Error())

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "A-1", nf.ID)
}

func TestValidationError_Message(t *testing.T) {
	verr := &ValidationError{}
	for i := 1; i <= 7; i++ {
		verr.Errors = append(verr.Errors, RowError{Row: i, Field: "item_id", Message: "missing item identifier"})
	}
	msg := verr.Error()
	assert.True(t, strings.HasPrefix(msg, "validation failed with 7 error(s)"))
	assert.Contains(t, msg, "row 5: item_id")
	assert.NotContains(t, msg, "row 6:")
	assert.True(t, strings.HasSuffix(msg, "and 2 more"))

	withID := RowError{Row: 3, ItemID: "B-2", Field: "quantity", Message: "not a number"}
	assert.Equal(t, "row 3 (B-2): quantity: not a number", withID.String())
}

func TestPartialFailureError(t *testing.T) {
	cause := errors.New("disk full")
	err := &PartialFailureError{Cleared: true, Inserted: 3, Total: 10, Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "inserted 3 of 10")
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, Thresholds{OutOfStock: 0, NearlyOut: 5, LowStock: 10, GoodStock: 25}.Validate())
	assert.NoError(t, Thresholds{OutOfStock: 3, NearlyOut: 3, LowStock: 3, GoodStock: 3}.Validate())
	assert.Error(t, Thresholds{OutOfStock: 0, NearlyOut: 12, LowStock: 10, GoodStock: 25}.Validate())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("ON_ORDER")
	require.NoError(t, err)
	assert.Equal(t, StatusOnOrder, st)

	_, err = ParseStatus("on_order")
	assert.Error(t, err)

	assert.Greater(t, StatusOutOfStock.Urgency(), StatusNearlyOut.Urgency())
	assert.Greater(t, StatusGoodStock.Urgency(), StatusOnOrder.Urgency())
}

func TestItemPatch(t *testing.T) {
	qty := 0
	name := "Beaker 250ml"
	active := false
	patch := ItemPatch{Quantity: &qty, DisplayName: &name, HasActiveOrder: &active}

	cols := patch.Columns()
	assert.Equal(t, map[string]any{"quantity": 0, "display_name": "Beaker 250ml", "has_active_order": false}, cols)

	item := Item{ItemID: "B-2", DisplayName: "Beaker", Quantity: 9, Notes: "fragile", HasActiveOrder: true}
	patch.Apply(&item)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, "Beaker 250ml", item.DisplayName)
	assert.False(t, item.HasActiveOrder)
	assert.Equal(t, "fragile", item.Notes, "absent fields are left alone")

	assert.Empty(t, ItemPatch{}.Columns())
}

func TestConfig_ExclusionList(t *testing.T) {
	cfg := Config{Exclusions: []string{" -TEST ", "", "  ", "sample"}}
	assert.Equal(t, []string{"-TEST", "sample"}, cfg.ExclusionList())
	assert.Empty(t, Config{}.ExclusionList())
}

func TestDefaultLabel(t *testing.T) {
	assert.Equal(t, "2026-01-31", DefaultLabel(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)))
}

func TestTransactionType_IsValid(t *testing.T) {
	for _, typ := range []TransactionType{TransactionIn, TransactionOut, TransactionAdjust, TransactionImport} {
		assert.True(t, typ.IsValid(), typ)
	}
	assert.False(t, TransactionType("gift").IsValid())
}
