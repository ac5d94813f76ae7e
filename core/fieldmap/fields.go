package fieldmap

// Field is a canonical item field that can be read from a feed.
type Field string

const (
	ItemID         Field = "item_id"
	DisplayName    Field = "display_name"
	Quantity       Field = "quantity"
	LabeledCount   Field = "labeled_count"
	Unit           Field = "unit"
	BatchNumber    Field = "batch_number"
	Purity         Field = "purity"
	NetWeight      Field = "net_weight"
	Velocity       Field = "velocity"
	OrderedQty     Field = "ordered_qty"
	OrderedDate    Field = "ordered_date"
	Notes          Field = "notes"
	HasActiveOrder Field = "has_active_order"
)

// Fields lists every canonical field in export order.
var Fields = []Field{
	ItemID,
	DisplayName,
	Quantity,
	LabeledCount,
	Unit,
	BatchNumber,
	Purity,
	NetWeight,
	Velocity,
	OrderedQty,
	OrderedDate,
	Notes,
	HasActiveOrder,
}

// aliases holds the accepted headers per field, most preferred first.
// The first alias doubles as the header written on export.
var aliases = map[Field][]string{
	ItemID:         {"Item ID", "ItemID", "SKU", "Item Code", "Product ID", "Part Number", "Code", "ID"},
	DisplayName:    {"Name", "Item Name", "Product Name", "Display Name", "Title", "Description"},
	Quantity:       {"Quantity", "Qty", "On Hand", "Stock", "Available", "Amount"},
	LabeledCount:   {"Labeled Count", "Labeled", "Labeled Qty", "Labels"},
	Unit:           {"Unit", "UOM", "Unit of Measure"},
	BatchNumber:    {"Batch Number", "Batch", "Lot Number", "Lot"},
	Purity:         {"Purity", "Grade"},
	NetWeight:      {"Net Weight", "Weight", "Net Wt"},
	Velocity:       {"Velocity", "Sales Velocity", "Turnover"},
	OrderedQty:     {"Ordered Qty", "Ordered Quantity", "On Order Qty"},
	OrderedDate:    {"Ordered Date", "Order Date"},
	Notes:          {"Notes", "Note", "Comments", "Remarks"},
	HasActiveOrder: {"Has Active Order", "Active Order", "On Order"},
}

// numeric fields are coerced with utils.ParseInt and never come back empty.
var numeric = map[Field]bool{
	Quantity:     true,
	LabeledCount: true,
	OrderedQty:   true,
}

// IsNumeric reports whether f is coerced to an integer.
func IsNumeric(f Field) bool {
	return numeric[f]
}

// Header returns the header written for f on export.
func Header(f Field) string {
	if a := aliases[f]; len(a) > 0 {
		return a[0]
	}
	return string(f)
}

// Headers returns the export header row.
func Headers() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = Header(f)
	}
	return out
}
