package enums

import "fmt"

// CheckoutStatus is the saga-level state of one checkout attempt.
type CheckoutStatus string

const (
	CheckoutStatusInitiated       CheckoutStatus = "initiated"
	CheckoutStatusCreditReserved  CheckoutStatus = "credit_reserved"
	CheckoutStatusStockReserved   CheckoutStatus = "stock_reserved"
	CheckoutStatusOrderCreated    CheckoutStatus = "order_created"
	CheckoutStatusPaymentCaptured CheckoutStatus = "payment_captured"
	CheckoutStatusCompleted       CheckoutStatus = "completed"
	CheckoutStatusFailed          CheckoutStatus = "failed"
	CheckoutStatusCancelled       CheckoutStatus = "cancelled"
	CheckoutStatusRollingBack     CheckoutStatus = "rolling_back"
	CheckoutStatusRolledBack      CheckoutStatus = "rolled_back"
)

var validCheckoutStatuses = []CheckoutStatus{
	CheckoutStatusInitiated,
	CheckoutStatusCreditReserved,
	CheckoutStatusStockReserved,
	CheckoutStatusOrderCreated,
	CheckoutStatusPaymentCaptured,
	CheckoutStatusCompleted,
	CheckoutStatusFailed,
	CheckoutStatusCancelled,
	CheckoutStatusRollingBack,
	CheckoutStatusRolledBack,
}

// String implements fmt.Stringer.
func (c CheckoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStatus.
func (c CheckoutStatus) IsValid() bool {
	for _, candidate := range validCheckoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the saga instance is finished.
func (c CheckoutStatus) IsTerminal() bool {
	switch c {
	case CheckoutStatusCompleted, CheckoutStatusFailed, CheckoutStatusCancelled, CheckoutStatusRolledBack:
		return true
	}
	return false
}

// ParseCheckoutStatus converts raw input into a CheckoutStatus.
func ParseCheckoutStatus(value string) (CheckoutStatus, error) {
	for _, candidate := range validCheckoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout status %q", value)
}
