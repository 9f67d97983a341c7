package enums

import "fmt"

// StockReservationStatus tracks a warehouse stock hold.
type StockReservationStatus string

const (
	StockReservationStatusActive    StockReservationStatus = "active"
	StockReservationStatusCommitted StockReservationStatus = "committed"
	StockReservationStatusReleased  StockReservationStatus = "released"
	StockReservationStatusExpired   StockReservationStatus = "expired"
)

var validStockReservationStatuses = []StockReservationStatus{
	StockReservationStatusActive,
	StockReservationStatusCommitted,
	StockReservationStatusReleased,
	StockReservationStatusExpired,
}

// String implements fmt.Stringer.
func (s StockReservationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockReservationStatus.
func (s StockReservationStatus) IsValid() bool {
	for _, candidate := range validStockReservationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockReservationStatus converts raw input into a StockReservationStatus.
func ParseStockReservationStatus(value string) (StockReservationStatus, error) {
	for _, candidate := range validStockReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock reservation status %q", value)
}
