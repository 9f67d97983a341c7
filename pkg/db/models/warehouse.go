package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a stock location ranked by allocation priority. Lower priority
// numbers are drained first.
type Warehouse struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Priority  int       `gorm:"column:priority;not null;default:100"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// StockLevel tracks available/reserved counts per product and warehouse.
type StockLevel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_stock_product_warehouse"`
	WarehouseID  uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:ux_stock_product_warehouse"`
	AvailableQty int       `gorm:"column:available_qty;not null;default:0"`
	ReservedQty  int       `gorm:"column:reserved_qty;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
