package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// CreditTransaction is one immutable ledger entry per balance-affecting
// operation. The ledger reconstructs balance history independently of the
// mutable customer account row.
type CreditTransaction struct {
	ID                 uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID         uuid.UUID                   `gorm:"column:customer_id;type:uuid;not null;index"`
	ReservationID      *uuid.UUID                  `gorm:"column:reservation_id;type:uuid;index"`
	OrderID            *uuid.UUID                  `gorm:"column:order_id;type:uuid"`
	Type               enums.CreditTransactionType `gorm:"column:type;type:credit_transaction_type;not null"`
	AmountCents        int64                       `gorm:"column:amount_cents;not null"`
	BalanceBeforeCents int64                       `gorm:"column:balance_before_cents;not null"`
	BalanceAfterCents  int64                       `gorm:"column:balance_after_cents;not null"`
	CreatedBy          string                      `gorm:"column:created_by;not null"`
	CreatedAt          time.Time                   `gorm:"column:created_at;autoCreateTime"`
}
