package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The goose migrations give every table a server-side gen_random_uuid()
// default on Postgres. Sqlite has no such function, so ids are assigned
// client-side whenever the caller left them zero.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *CartRecord) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
func (m *CartItem) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *CheckoutSession) BeforeCreate(*gorm.DB) error   { ensureID(&m.ID); return nil }
func (m *CreditReservation) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *CreditTransaction) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *CustomerAccount) BeforeCreate(*gorm.DB) error   { ensureID(&m.ID); return nil }
func (m *OrderRecord) BeforeCreate(*gorm.DB) error       { ensureID(&m.ID); return nil }
func (m *OrderLineItem) BeforeCreate(*gorm.DB) error     { ensureID(&m.ID); return nil }
func (m *OutboxEvent) BeforeCreate(*gorm.DB) error       { ensureID(&m.ID); return nil }
func (m *StockReservation) BeforeCreate(*gorm.DB) error  { ensureID(&m.ID); return nil }
func (m *Warehouse) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *StockLevel) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
