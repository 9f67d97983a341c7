package payloads

// CreditReservedEvent is emitted when a credit reservation becomes active.
type CreditReservedEvent struct {
	ReservationID string `json:"reservation_id"`
	CustomerID    string `json:"customer_id"`
	CheckoutID    string `json:"checkout_id"`
	AmountCents   int64  `json:"amount_cents"`
	ExpiresAt     string `json:"expires_at"`
}

// CreditCapturedEvent is emitted when a reservation converts into a ledger charge.
type CreditCapturedEvent struct {
	ReservationID string `json:"reservation_id"`
	CustomerID    string `json:"customer_id"`
	OrderID       string `json:"order_id"`
	AmountCents   int64  `json:"amount_cents"`
}

// CreditReleasedEvent is emitted when a reservation is released or expired.
type CreditReleasedEvent struct {
	ReservationID string `json:"reservation_id"`
	CustomerID    string `json:"customer_id"`
	AmountCents   int64  `json:"amount_cents"`
	Reason        string `json:"reason"`
}
