package inventory

import "time"

// DefaultUnit is applied to imported items that carry no unit column.
const DefaultUnit = "units"

// Item is the canonical inventory unit.
type Item struct {
	// ItemID is the globally unique, immutable identifier.
	ItemID string `json:"item_id" gorm:"column:item_id;primaryKey;size:191"`
	// DisplayName is the human readable name.
	DisplayName string `json:"display_name" gorm:"column:display_name"`
	// Quantity is the on-hand count. Negative values represent a back-order.
	Quantity int `json:"quantity" gorm:"column:quantity;not null"`
	// LabeledCount is the independently tracked number of physically labeled units.
	// It is not bounded by Quantity.
	LabeledCount int `json:"labeled_count" gorm:"column:labeled_count;not null"`
	// Unit is the unit of measure (e.g. "units", "g").
	Unit           string `json:"unit,omitempty" gorm:"column:unit"`
	BatchNumber    string `json:"batch_number,omitempty" gorm:"column:batch_number"`
	Purity         string `json:"purity,omitempty" gorm:"column:purity"`
	NetWeight      string `json:"net_weight,omitempty" gorm:"column:net_weight"`
	Velocity       string `json:"velocity,omitempty" gorm:"column:velocity"`
	OrderedQty     int    `json:"ordered_qty,omitempty" gorm:"column:ordered_qty;not null"`
	OrderedDate    string `json:"ordered_date,omitempty" gorm:"column:ordered_date"`
	Notes          string `json:"notes,omitempty" gorm:"column:notes;type:text"`
	HasActiveOrder bool   `json:"has_active_order" gorm:"column:has_active_order;not null"`

	ImportedAt time.Time `json:"imported_at" gorm:"column:imported_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`

	// RowNumber is the source line of the item in the feed it was parsed from.
	// It is volatile metadata and never persisted.
	RowNumber int `json:"row_number,omitempty" gorm:"-"`
}

// TableName overrides the table name used by GORM.
func (Item) TableName() string {
	return "items"
}

// ItemPatch is a partial update. Only non-nil fields are applied.
type ItemPatch struct {
	DisplayName    *string `json:"display_name,omitempty"`
	Quantity       *int    `json:"quantity,omitempty"`
	LabeledCount   *int    `json:"labeled_count,omitempty"`
	Unit           *string `json:"unit,omitempty"`
	BatchNumber    *string `json:"batch_number,omitempty"`
	Purity         *string `json:"purity,omitempty"`
	NetWeight      *string `json:"net_weight,omitempty"`
	Velocity       *string `json:"velocity,omitempty"`
	OrderedQty     *int    `json:"ordered_qty,omitempty"`
	OrderedDate    *string `json:"ordered_date,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	HasActiveOrder *bool   `json:"has_active_order,omitempty"`
}

// Columns returns the patch as a column -> value map suitable for GORM Updates.
func (p ItemPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.DisplayName != nil {
		cols["display_name"] = *p.DisplayName
	}
	if p.Quantity != nil {
		cols["quantity"] = *p.Quantity
	}
	if p.LabeledCount != nil {
		cols["labeled_count"] = *p.LabeledCount
	}
	if p.Unit != nil {
		cols["unit"] = *p.Unit
	}
	if p.BatchNumber != nil {
		cols["batch_number"] = *p.BatchNumber
	}
	if p.Purity != nil {
		cols["purity"] = *p.Purity
	}
	if p.NetWeight != nil {
		cols["net_weight"] = *p.NetWeight
	}
	if p.Velocity != nil {
		cols["velocity"] = *p.Velocity
	}
	if p.OrderedQty != nil {
		cols["ordered_qty"] = *p.OrderedQty
	}
	if p.OrderedDate != nil {
		cols["ordered_date"] = *p.OrderedDate
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	if p.HasActiveOrder != nil {
		cols["has_active_order"] = *p.HasActiveOrder
	}
	return cols
}

// Apply copies the non-nil fields of the patch onto item.
func (p ItemPatch) Apply(item *Item) {
	if p.DisplayName != nil {
		item.DisplayName = *p.DisplayName
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.LabeledCount != nil {
		item.LabeledCount = *p.LabeledCount
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.BatchNumber != nil {
		item.BatchNumber = *p.BatchNumber
	}
	if p.Purity != nil {
		item.Purity = *p.Purity
	}
	if p.NetWeight != nil {
		item.NetWeight = *p.NetWeight
	}
	if p.Velocity != nil {
		item.Velocity = *p.Velocity
	}
	if p.OrderedQty != nil {
		item.OrderedQty = *p.OrderedQty
	}
	if p.OrderedDate != nil {
		item.OrderedDate = *p.OrderedDate
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if p.HasActiveOrder != nil {
		item.HasActiveOrder = *p.HasActiveOrder
	}
}

// Snapshot is an immutable point-in-time copy of the full item set.
type Snapshot struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey;size:36"`
	Label     string    `json:"label" gorm:"column:label"`
	Auto      bool      `json:"auto" gorm:"column:is_auto;not null"`
	TakenAt   time.Time `json:"taken_at" gorm:"column:taken_at;index"`
	ItemCount int       `json:"item_count" gorm:"column:item_count"`
	Items     []Item    `json:"items,omitempty" gorm:"column:items;serializer:json"`
}

// TableName overrides the table name used by GORM.
func (Snapshot) TableName() string {
	return "snapshots"
}

// DefaultLabel returns the date-based label used when a snapshot is taken without one.
func DefaultLabel(t time.Time) string {
	return t.Format("2006-01-02")
}

// TransactionType tags the origin of a quantity delta.
type TransactionType string

const (
	TransactionIn     TransactionType = "in"
	TransactionOut    TransactionType = "out"
	TransactionAdjust TransactionType = "adjust"
	TransactionImport TransactionType = "import"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionAdjust, TransactionImport:
		return true
	default:
		return false
	}
}

// Transaction is an append-only audit record of a quantity change.
type Transaction struct {
	ID        string          `json:"id" gorm:"column:id;primaryKey;size:36"`
	ItemID    string          `json:"item_id" gorm:"column:item_id;index;size:191"`
	Delta     int             `json:"delta" gorm:"column:delta"`
	Type      TransactionType `json:"type" gorm:"column:type;size:16"`
	Note      string          `json:"note,omitempty" gorm:"column:note"`
	CreatedAt time.Time       `json:"created_at" gorm:"column:created_at;index"`
}

// TableName overrides the table name used by GORM.
func (Transaction) TableName() string {
	return "stock_transactions"
}
