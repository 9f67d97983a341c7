package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// CheckoutSession is the persisted saga instance for one checkout attempt.
// Step errors and compensation markers are kept as jsonb so the row stays a
// faithful audit record of what the orchestrator did.
type CheckoutSession struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID          uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	CartID              uuid.UUID            `gorm:"column:cart_id;type:uuid;not null"`
	Status              enums.CheckoutStatus `gorm:"column:status;type:checkout_status;not null;default:'initiated'"`
	CurrentStep         enums.CheckoutStep   `gorm:"column:current_step;type:checkout_step;not null;default:'validate_cart'"`
	CreditReservationID *uuid.UUID           `gorm:"column:credit_reservation_id;type:uuid"`
	OrderID             *uuid.UUID           `gorm:"column:order_id;type:uuid"`
	Errors              json.RawMessage      `gorm:"column:errors;type:jsonb"`
	Compensations       json.RawMessage      `gorm:"column:compensations;type:jsonb"`
	StartedAt           time.Time            `gorm:"column:started_at;autoCreateTime"`
	CompletedAt         *time.Time           `gorm:"column:completed_at"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
