package fieldmap

import (
	"strconv"
	"strings"

	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/utils"
)

// Row is one tabular record keyed by its header.
type Row map[string]string

// Extract resolves a canonical field from row.
//
// Every alias is first tried as an exact header, then every alias is tried
// case-insensitively (ignoring surrounding whitespace on headers). The first
// alias that resolves wins. A blank value counts as absent.
func Extract(row Row, f Field) (string, bool) {
	candidates := aliases[f]
	if len(candidates) == 0 {
		return "", false
	}

	for _, alias := range candidates {
		if v, ok := row[alias]; ok {
			return nonBlank(v)
		}
	}

	folded := make(map[string]string, len(row))
	for header, v := range row {
		key := strings.ToLower(strings.TrimSpace(header))
		if _, seen := folded[key]; !seen {
			folded[key] = v
		}
	}
	for _, alias := range candidates {
		if v, ok := folded[strings.ToLower(alias)]; ok {
			return nonBlank(v)
		}
	}
	return "", false
}

// ExtractInt resolves a field and coerces it to an integer.
// Absent or unparsable values normalize to 0.
func ExtractInt(row Row, f Field) int {
	v, ok := Extract(row, f)
	if !ok {
		return 0
	}
	return utils.ParseInt(v)
}

// ExtractBool resolves a field and coerces it to a boolean.
func ExtractBool(row Row, f Field) bool {
	v, ok := Extract(row, f)
	if !ok {
		return false
	}
	return utils.ToBool(v)
}

// Has reports whether any alias of f appears in the header set.
func Has(headers []string, f Field) bool {
	row := make(Row, len(headers))
	for _, h := range headers {
		row[h] = "x"
	}
	_, ok := Extract(row, f)
	return ok
}

// ToRow renders item through the inverse mapping, keyed by Header.
// Re-extracting the row reproduces the item field for field.
func ToRow(item inventory.Item) Row {
	return Row{
		Header(ItemID):         item.ItemID,
		Header(DisplayName):    item.DisplayName,
		Header(Quantity):       strconv.Itoa(item.Quantity),
		Header(LabeledCount):   strconv.Itoa(item.LabeledCount),
		Header(Unit):           item.Unit,
		Header(BatchNumber):    item.BatchNumber,
		Header(Purity):         item.Purity,
		Header(NetWeight):      item.NetWeight,
		Header(Velocity):       item.Velocity,
		Header(OrderedQty):     strconv.Itoa(item.OrderedQty),
		Header(OrderedDate):    item.OrderedDate,
		Header(Notes):          item.Notes,
		Header(HasActiveOrder): strconv.FormatBool(item.HasActiveOrder),
	}
}

// Record returns the values of row in Headers() order.
func Record(row Row) []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = row[Header(f)]
	}
	return out
}

func nonBlank(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}
