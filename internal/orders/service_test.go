package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
)

func TestCreateAssignsSequentialOrderNumbers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	customerID := uuid.New()
	input := CreateOrderInput{
		CustomerID:    customerID,
		SubtotalCents: 10_000,
		TotalCents:    10_000,
		Lines: []LineInput{
			{ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 5_000},
		},
	}

	var first, second *models.OrderRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		var terr error
		first, terr = svc.Create(ctx, tx, input)
		return terr
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var terr error
		second, terr = svc.Create(ctx, tx, input)
		return terr
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.OrderNumber != 100000 {
		t.Fatalf("expected first order number 100000, got %d", first.OrderNumber)
	}
	if second.OrderNumber != first.OrderNumber+1 {
		t.Fatalf("expected sequential numbers, got %d then %d", first.OrderNumber, second.OrderNumber)
	}
	if first.Status != enums.OrderStatusPending {
		t.Fatalf("new order must be pending, got %s", first.Status)
	}
	if len(first.Items) != 1 || first.Items[0].TotalCents != 10_000 {
		t.Fatalf("unexpected line items %+v", first.Items)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, db, CreateOrderInput{CustomerID: uuid.Nil})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(ctx, db, CreateOrderInput{CustomerID: uuid.New()})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("lineless order must fail, got %v", err)
	}

	_, err = svc.Create(ctx, db, CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: uuid.New(), Quantity: 0}},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("zero quantity line must fail, got %v", err)
	}
}

func TestTransitionFollowsStatusTable(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	var order *models.OrderRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		var terr error
		order, terr = svc.Create(ctx, tx, CreateOrderInput{
			CustomerID:    uuid.New(),
			SubtotalCents: 500,
			TotalCents:    500,
			Lines:         []LineInput{{ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 500}},
		})
		return terr
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Transition(ctx, db, order.ID, enums.OrderStatusConfirmed); err != nil {
		t.Fatalf("pending->confirmed: %v", err)
	}
	if err := svc.Transition(ctx, db, order.ID, enums.OrderStatusDelivered); !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("confirmed->delivered must be rejected, got %v", err)
	}

	reloaded, err := svc.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", reloaded.Status)
	}
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.OrderRecord{}, &models.OrderLineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
