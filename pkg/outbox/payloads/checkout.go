package payloads

// CheckoutStartedEvent is emitted when a checkout saga begins executing.
type CheckoutStartedEvent struct {
	CheckoutID string `json:"checkout_id"`
	CustomerID string `json:"customer_id"`
	CartID     string `json:"cart_id"`
	TotalCents int64  `json:"total_cents"`
}

// CheckoutCompletedEvent is emitted after every saga step has committed.
type CheckoutCompletedEvent struct {
	CheckoutID  string `json:"checkout_id"`
	CustomerID  string `json:"customer_id"`
	OrderID     string `json:"order_id"`
	OrderNumber int64  `json:"order_number"`
	TotalCents  int64  `json:"total_cents"`
}

// CheckoutFailedEvent is emitted after a failed saga finished compensating.
type CheckoutFailedEvent struct {
	CheckoutID    string   `json:"checkout_id"`
	CustomerID    string   `json:"customer_id"`
	FailedStep    string   `json:"failed_step"`
	ErrorCode     string   `json:"error_code"`
	ErrorMessage  string   `json:"error_message"`
	Compensations []string `json:"compensations,omitempty"`
}
