package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// CustomerAccount is the mutable credit-line row for one B2B customer.
// CreditUsedCents is only ever changed under a row lock inside a managed
// transaction; the credit_transactions ledger is the audit trail.
type CustomerAccount struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CompanyName      string               `gorm:"column:company_name;not null"`
	Status           enums.CustomerStatus `gorm:"column:status;type:customer_status;not null;default:'active'"`
	CreditLimitCents int64                `gorm:"column:credit_limit_cents;not null;default:0"`
	CreditUsedCents  int64                `gorm:"column:credit_used_cents;not null;default:0"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// AvailableCreditCents returns the remaining headroom on the credit line.
func (c CustomerAccount) AvailableCreditCents() int64 {
	return c.CreditLimitCents - c.CreditUsedCents
}
