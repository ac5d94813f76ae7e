package reconcile

import (
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/utils"
)

// Classify derives the stock-urgency status of a quantity.
//
// An active order short-circuits to ON_ORDER. Otherwise the thresholds are
// walked in ascending order with inclusive upper bounds. Thresholds must be
// ascending; see inventory.Thresholds.Validate.
func Classify(quantity int, t inventory.Thresholds, hasActiveOrder bool) inventory.Status {
	if hasActiveOrder {
		return inventory.StatusOnOrder
	}
	switch {
	case quantity <= t.OutOfStock:
		return inventory.StatusOutOfStock
	case quantity <= t.NearlyOut:
		return inventory.StatusNearlyOut
	case quantity <= t.LowStock:
		return inventory.StatusLowStock
	default:
		return inventory.StatusGoodStock
	}
}

// ClassifyValue is Classify for loosely typed input. Missing or
// non-numeric quantities count as 0.
func ClassifyValue(quantity any, t inventory.Thresholds, hasActiveOrder bool) inventory.Status {
	return Classify(utils.ToInt(quantity), t, hasActiveOrder)
}

// OffBooks returns the labeled units not accounted for by recorded stock.
// The result is never negative.
func OffBooks(quantity, labeledCount int) int {
	// Kept as three branches: the zero-quantity case must not fall into the
	// generic subtraction.
	if quantity == 0 && labeledCount > 0 {
		return labeledCount
	}
	if quantity < 0 {
		return max(0, labeledCount-(-quantity))
	}
	return max(0, labeledCount-quantity)
}

// Evaluate classifies one item.
func Evaluate(item inventory.Item, t inventory.Thresholds) ItemState {
	return ItemState{
		Item:     item,
		Status:   Classify(item.Quantity, t, item.HasActiveOrder),
		OffBooks: OffBooks(item.Quantity, item.LabeledCount),
	}
}

// EvaluateAll classifies every item, preserving order.
func EvaluateAll(items []inventory.Item, t inventory.Thresholds) []ItemState {
	out := make([]ItemState, len(items))
	for i, item := range items {
		out[i] = Evaluate(item, t)
	}
	return out
}
