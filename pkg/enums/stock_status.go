package enums

import "fmt"

// StockStatus is the derived health of an inventory line.
type StockStatus string

const (
	StockStatusOK       StockStatus = "OK"
	StockStatusLow      StockStatus = "Low"
	StockStatusCritical StockStatus = "Critical"
)

var validStockStatuses = []StockStatus{
	StockStatusOK,
	StockStatusLow,
	StockStatusCritical,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
