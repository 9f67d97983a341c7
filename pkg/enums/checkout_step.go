package enums

import "fmt"

// CheckoutStep names one stage of the checkout saga. Steps execute strictly in
// the order returned by CheckoutSteps.
type CheckoutStep string

const (
	CheckoutStepValidateCart   CheckoutStep = "validate_cart"
	CheckoutStepReserveCredit  CheckoutStep = "reserve_credit"
	CheckoutStepReserveStock   CheckoutStep = "reserve_stock"
	CheckoutStepCreateOrder    CheckoutStep = "create_order"
	CheckoutStepCapturePayment CheckoutStep = "capture_payment"
	CheckoutStepFinalize       CheckoutStep = "finalize"
)

var orderedCheckoutSteps = []CheckoutStep{
	CheckoutStepValidateCart,
	CheckoutStepReserveCredit,
	CheckoutStepReserveStock,
	CheckoutStepCreateOrder,
	CheckoutStepCapturePayment,
	CheckoutStepFinalize,
}

// CheckoutSteps returns the saga steps in execution order.
func CheckoutSteps() []CheckoutStep {
	steps := make([]CheckoutStep, len(orderedCheckoutSteps))
	copy(steps, orderedCheckoutSteps)
	return steps
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	for _, candidate := range orderedCheckoutSteps {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range orderedCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
