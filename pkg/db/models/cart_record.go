package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// CartRecord is a customer- or session-scoped cart. Exactly one of CustomerID
// and SessionID is set.
type CartRecord struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID     *uuid.UUID       `gorm:"column:customer_id;type:uuid;index"`
	SessionID      *string          `gorm:"column:session_id;index"`
	Status         enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	OrderID        *uuid.UUID       `gorm:"column:order_id;type:uuid"`
	SubtotalCents  int64            `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents  int64            `gorm:"column:discount_cents;not null;default:0"`
	TaxCents       int64            `gorm:"column:tax_cents;not null;default:0"`
	ShippingCents  int64            `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents     int64            `gorm:"column:total_cents;not null;default:0"`
	ExpiresAt      time.Time        `gorm:"column:expires_at;not null"`
	Items          []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one ordered line of a cart.
type CartItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID  `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	WarehouseID    *uuid.UUID `gorm:"column:warehouse_id;type:uuid"`
	Quantity       int        `gorm:"column:quantity;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	Position       int        `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
