package reconcile

import (
	"math"
	"time"

	"inventory-reconciler/core/inventory"
)

// Velocity averages stock movement over the window ending at now.
// Outbound units are the negated deltas of out transactions and of negative
// adjustments; imports are ignored because they restate rather than move stock.
func Velocity(transactions []inventory.Transaction, window time.Duration, now time.Time) VelocityStats {
	days := int(math.Ceil(window.Hours() / 24))
	if days < 1 {
		days = 1
	}
	stats := VelocityStats{Days: days}
	from := now.Add(-window)

	for _, tx := range transactions {
		if tx.CreatedAt.Before(from) || tx.CreatedAt.After(now) {
			continue
		}
		switch tx.Type {
		case inventory.TransactionOut:
			stats.UnitsOut += abs(tx.Delta)
		case inventory.TransactionIn:
			stats.UnitsIn += abs(tx.Delta)
		case inventory.TransactionAdjust:
			if tx.Delta < 0 {
				stats.UnitsOut += -tx.Delta
			} else {
				stats.UnitsIn += tx.Delta
			}
		}
	}

	stats.PerDay = float64(stats.UnitsOut) / float64(days)
	return stats
}

// DaysOfCover estimates how many days the quantity lasts at the given rate.
// It returns false when nothing is moving out.
func DaysOfCover(quantity int, perDay float64) (float64, bool) {
	if perDay <= 0 {
		return 0, false
	}
	if quantity <= 0 {
		return 0, true
	}
	return float64(quantity) / perDay, true
}
