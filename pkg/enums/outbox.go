package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateCheckout          OutboxAggregateType = "checkout"
	AggregateOrder             OutboxAggregateType = "order"
	AggregateCreditReservation OutboxAggregateType = "credit_reservation"
	AggregateStockReservation  OutboxAggregateType = "stock_reservation"
	AggregateCart              OutboxAggregateType = "cart"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateCheckout,
	AggregateOrder,
	AggregateCreditReservation,
	AggregateStockReservation,
	AggregateCart,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventCheckoutStarted   OutboxEventType = "checkout.started"
	EventCheckoutCompleted OutboxEventType = "checkout.completed"
	EventCheckoutFailed    OutboxEventType = "checkout.failed"
	EventCreditReserved    OutboxEventType = "credit.reserved"
	EventCreditCaptured    OutboxEventType = "credit.captured"
	EventCreditReleased    OutboxEventType = "credit.released"
	EventOrderCreated      OutboxEventType = "order.created"
	EventStockReleased     OutboxEventType = "stock.released"
)

var validOutboxEventTypes = []OutboxEventType{
	EventCheckoutStarted,
	EventCheckoutCompleted,
	EventCheckoutFailed,
	EventCreditReserved,
	EventCreditCaptured,
	EventCreditReleased,
	EventOrderCreated,
	EventStockReleased,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
