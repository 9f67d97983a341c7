package errors

import "github.com/google/uuid"

// CreditShortfallDetails carries the numbers a caller needs to decide between
// reducing quantity, requesting a limit increase, or abandoning checkout.
type CreditShortfallDetails struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	LimitCents     int64     `json:"limit_cents"`
	UsedCents      int64     `json:"used_cents"`
	AvailableCents int64     `json:"available_cents"`
	ShortfallCents int64     `json:"shortfall_cents"`
}

// StockShortfallDetails reports partial fulfillment per product.
type StockShortfallDetails struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int       `json:"requested"`
	Allocated int       `json:"allocated"`
	Shortfall int       `json:"shortfall"`
}

// StepFailureDetails identifies which checkout step failed.
type StepFailureDetails struct {
	Step    string `json:"step"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// NewInsufficientCredit builds the canonical insufficient-credit error.
func NewInsufficientCredit(d CreditShortfallDetails) *Error {
	return New(CodeInsufficientCredit, "credit limit exceeded").WithDetails(d)
}

// NewStockShortfall builds the canonical partial-fulfillment error.
func NewStockShortfall(d StockShortfallDetails) *Error {
	return New(CodeStockShortfall, "requested quantity exceeds available stock").WithDetails(d)
}
