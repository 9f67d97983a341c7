package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// CreditReservation is a hold against a customer's credit line for one order.
// Rows are never deleted; terminal statuses are final.
type CreditReservation struct {
	ID                 uuid.UUID                     `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID         uuid.UUID                     `gorm:"column:customer_id;type:uuid;not null;index"`
	OrderID            *uuid.UUID                    `gorm:"column:order_id;type:uuid;index"`
	AmountCents        int64                         `gorm:"column:amount_cents;not null"`
	BalanceBeforeCents int64                         `gorm:"column:balance_before_cents;not null"`
	BalanceAfterCents  int64                         `gorm:"column:balance_after_cents;not null"`
	Status             enums.CreditReservationStatus `gorm:"column:status;type:credit_reservation_status;not null;default:'active'"`
	ReservedAt         time.Time                     `gorm:"column:reserved_at;autoCreateTime"`
	ExpiresAt          time.Time                     `gorm:"column:expires_at;not null"`
	CapturedAt         *time.Time                    `gorm:"column:captured_at"`
	ReleasedAt         *time.Time                    `gorm:"column:released_at"`
}
