package enums

import "fmt"

// CreditReservationStatus tracks the lifecycle of a hold against a credit line.
// Active reservations may move to exactly one terminal state.
type CreditReservationStatus string

const (
	CreditReservationStatusActive   CreditReservationStatus = "active"
	CreditReservationStatusCaptured CreditReservationStatus = "captured"
	CreditReservationStatusReleased CreditReservationStatus = "released"
	CreditReservationStatusExpired  CreditReservationStatus = "expired"
	CreditReservationStatusFailed   CreditReservationStatus = "failed"
)

var validCreditReservationStatuses = []CreditReservationStatus{
	CreditReservationStatusActive,
	CreditReservationStatusCaptured,
	CreditReservationStatusReleased,
	CreditReservationStatusExpired,
	CreditReservationStatusFailed,
}

// String implements fmt.Stringer.
func (c CreditReservationStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CreditReservationStatus.
func (c CreditReservationStatus) IsValid() bool {
	for _, candidate := range validCreditReservationStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the reservation can no longer change state.
func (c CreditReservationStatus) IsTerminal() bool {
	return c != CreditReservationStatusActive && c.IsValid()
}

// ParseCreditReservationStatus converts raw input into a CreditReservationStatus.
func ParseCreditReservationStatus(value string) (CreditReservationStatus, error) {
	for _, candidate := range validCreditReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid credit reservation status %q", value)
}
