package inventory

import "fmt"

// Status is the stock-urgency classification of an item.
type Status string

const (
	StatusOutOfStock Status = "OUT_OF_STOCK"
	StatusNearlyOut  Status = "NEARLY_OUT"
	StatusLowStock   Status = "LOW_STOCK"
	StatusGoodStock  Status = "GOOD_STOCK"
	StatusOnOrder    Status = "ON_ORDER"
)

// Urgency ranks a status, higher meaning more urgent. ON_ORDER ranks below
// every quantity-derived status because a replenishment is already in flight.
func (s Status) Urgency() int {
	switch s {
	case StatusOutOfStock:
		return 4
	case StatusNearlyOut:
		return 3
	case StatusLowStock:
		return 2
	case StatusGoodStock:
		return 1
	default:
		return 0
	}
}

// ParseStatus validates a user-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusOutOfStock, StatusNearlyOut, StatusLowStock, StatusGoodStock, StatusOnOrder:
		return st, nil
	default:
		return "", fmt.Errorf("unknown stock status: %s", s)
	}
}

// Thresholds holds the four ascending cut points used by classification.
type Thresholds struct {
	OutOfStock int `mapstructure:"out_of_stock" default:"0" json:"out_of_stock"`
	NearlyOut  int `mapstructure:"nearly_out" default:"5" json:"nearly_out"`
	LowStock   int `mapstructure:"low_stock" default:"10" json:"low_stock"`
	GoodStock  int `mapstructure:"good_stock" default:"25" json:"good_stock"`
}

// Validate rejects threshold sets that are not ascending.
func (t Thresholds) Validate() error {
	if t.OutOfStock > t.NearlyOut || t.NearlyOut > t.LowStock || t.LowStock > t.GoodStock {
		return fmt.Errorf("thresholds must be ascending: out_of_stock=%d nearly_out=%d low_stock=%d good_stock=%d",
			t.OutOfStock, t.NearlyOut, t.LowStock, t.GoodStock)
	}
	return nil
}
