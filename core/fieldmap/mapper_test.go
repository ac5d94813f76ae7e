package fieldmap

import (
	"testing"
	"time"

	"inventory-reconciler/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		field  Field
		want   string
		wantOK bool
	}{
		{"ExactHeader", Row{"Qty": "12"}, Quantity, "12", true},
		{"CaseInsensitive", Row{"on hand": "7"}, Quantity, "7", true},
		{"HeaderWhitespace", Row{" SKU ": "A-1"}, ItemID, "A-1", true},
		{"FirstAliasWins", Row{"Stock": "3", "Quantity": "9"}, Quantity, "9", true},
		{"ExactBeatsCaseInsensitive", Row{"quantity": "1", "Amount": "2"}, Quantity, "2", true},
		{"Missing", Row{"Name": "Widget"}, Quantity, "", false},
		{"BlankValue", Row{"Quantity": "   "}, Quantity, "", false},
		{"ValueTrimmed", Row{"Name": "  Widget "}, DisplayName, "Widget", true},
		{"UnknownField", Row{"Quantity": "1"}, Field("nope"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.row, tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractInt(t *testing.T) {
	assert.Equal(t, 1200, ExtractInt(Row{"Qty": "1,200 units"}, Quantity))
	assert.Equal(t, -4, ExtractInt(Row{"Qty": "-4"}, Quantity))
	assert.Equal(t, 0, ExtractInt(Row{"Qty": "lots"}, Quantity))
	assert.Equal(t, 0, ExtractInt(Row{}, Quantity))
}

func TestExtractBool(t *testing.T) {
	assert.True(t, ExtractBool(Row{"On Order": "yes"}, HasActiveOrder))
	assert.False(t, ExtractBool(Row{"On Order": "no"}, HasActiveOrder))
	assert.False(t, ExtractBool(Row{}, HasActiveOrder))
}

func TestHas(t *testing.T) {
	headers := []string{"sku", "Product Name", "Available"}
	assert.True(t, Has(headers, ItemID))
	assert.True(t, Has(headers, DisplayName))
	assert.True(t, Has(headers, Quantity))
	assert.False(t, Has(headers, BatchNumber))
}

func TestHeadersAreUniqueAndResolvable(t *testing.T) {
	headers := Headers()
	require.Len(t, headers, len(Fields))

	seen := make(map[string]bool)
	for i, h := range headers {
		assert.False(t, seen[h], "duplicate header %s", h)
		seen[h] = true

		_, ok := Extract(Row{h: "v"}, Fields[i])
		assert.True(t, ok, "header %s does not resolve to %s", h, Fields[i])
	}
}

func TestToRowRoundTrip(t *testing.T) {
	item := inventory.Item{
		ItemID:         "SKU-9",
		DisplayName:    "Nine",
		Quantity:       -2,
		LabeledCount:   4,
		Unit:           "g",
		BatchNumber:    "B7",
		Purity:         "99.5%",
		NetWeight:      "10g",
		Velocity:       "fast",
		OrderedQty:     30,
		OrderedDate:    "2026-10-01",
		Notes:          "keep cold",
		HasActiveOrder: true,
		ImportedAt:     time.Now(),
	}

	row := ToRow(item)
	assert.Equal(t, "SKU-9", mustExtract(t, row, ItemID))
	assert.Equal(t, -2, ExtractInt(row, Quantity))
	assert.Equal(t, 4, ExtractInt(row, LabeledCount))
	assert.Equal(t, 30, ExtractInt(row, OrderedQty))
	assert.True(t, ExtractBool(row, HasActiveOrder))
	assert.Equal(t, "99.5%", mustExtract(t, row, Purity))

	record := Record(row)
	assert.Equal(t, "SKU-9", record[0])
	assert.Equal(t, "true", record[len(record)-1])
}

func mustExtract(t *testing.T, row Row, f Field) string {
	t.Helper()
	v, ok := Extract(row, f)
	require.True(t, ok, "field %s missing", f)
	return v
}
