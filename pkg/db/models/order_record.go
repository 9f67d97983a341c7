package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// OrderRecord is the sales order persisted by the checkout saga.
type OrderRecord struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber   int64             `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID    uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	CartID        *uuid.UUID        `gorm:"column:cart_id;type:uuid"`
	Status        enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	SubtotalCents int64             `gorm:"column:subtotal_cents;not null"`
	DiscountCents int64             `gorm:"column:discount_cents;not null;default:0"`
	TaxCents      int64             `gorm:"column:tax_cents;not null;default:0"`
	ShippingCents int64             `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents    int64             `gorm:"column:total_cents;not null"`
	Items         []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem is one line of an order, traceable to its stock allocation.
type OrderLineItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	WarehouseID    *uuid.UUID `gorm:"column:warehouse_id;type:uuid"`
	Quantity       int        `gorm:"column:quantity;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	TotalCents     int64      `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
