package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// StockReservation is one persisted allocation row per (item, warehouse) pair
// produced by the allocator. A checkout groups its rows by CheckoutID.
type StockReservation struct {
	ID          uuid.UUID                    `gorm:"column:id;type:uuid;primaryKey"`
	CheckoutID  uuid.UUID                    `gorm:"column:checkout_id;type:uuid;not null;index"`
	OrderID     *uuid.UUID                   `gorm:"column:order_id;type:uuid;index"`
	ProductID   uuid.UUID                    `gorm:"column:product_id;type:uuid;not null"`
	WarehouseID uuid.UUID                    `gorm:"column:warehouse_id;type:uuid;not null"`
	Quantity    int                          `gorm:"column:quantity;not null"`
	Status      enums.StockReservationStatus `gorm:"column:status;type:stock_reservation_status;not null;default:'active'"`
	ExpiresAt   time.Time                    `gorm:"column:expires_at;not null"`
	ReleasedAt  *time.Time                   `gorm:"column:released_at"`
	CreatedAt   time.Time                    `gorm:"column:created_at;autoCreateTime"`
}
