package models

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "models.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

// Sqlite has no gen_random_uuid(), so every model must migrate cleanly and
// pick up a client-side id on insert.
func TestAutoMigrateAllModelsOnSqlite(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if err := db.AutoMigrate(
		&CartRecord{},
		&CartItem{},
		&CheckoutSession{},
		&CreditReservation{},
		&CreditTransaction{},
		&CustomerAccount{},
		&OrderRecord{},
		&OrderLineItem{},
		&OutboxEvent{},
		&StockReservation{},
		&Warehouse{},
		&StockLevel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	wh := Warehouse{Name: "main", Priority: 1, Active: true}
	if err := db.Create(&wh).Error; err != nil {
		t.Fatalf("create warehouse: %v", err)
	}
	if wh.ID == uuid.Nil {
		t.Fatal("expected a generated warehouse id")
	}
}

func TestBeforeCreateKeepsCallerAssignedID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if err := db.AutoMigrate(&Warehouse{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	fixed := uuid.New()
	wh := Warehouse{ID: fixed, Name: "east", Priority: 2, Active: true}
	if err := db.Create(&wh).Error; err != nil {
		t.Fatalf("create warehouse: %v", err)
	}
	if wh.ID != fixed {
		t.Fatalf("expected id %s to survive insert, got %s", fixed, wh.ID)
	}
}
