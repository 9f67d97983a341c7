package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
)

// Service persists sales orders created by checkout.
type Service interface {
	Create(ctx context.Context, tx *gorm.DB, input CreateOrderInput) (*models.OrderRecord, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.OrderRecord, error)
	Transition(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, to enums.OrderStatus) error
}

// CreateOrderInput is the cart snapshot an order is built from.
type CreateOrderInput struct {
	CustomerID    uuid.UUID
	CartID        *uuid.UUID
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	ShippingCents int64
	TotalCents    int64
	Lines         []LineInput
}

// LineInput is one order line with its warehouse assignment.
type LineInput struct {
	ProductID      uuid.UUID
	WarehouseID    *uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

type service struct {
	repo Repository
}

// NewService wires an orders service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, tx *gorm.DB, input CreateOrderInput) (*models.OrderRecord, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line")
	}
	if input.TotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total cannot be negative")
	}

	repo := s.repo.WithTx(tx)

	orderNumber, err := repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLineItem, len(input.Lines))
	for i, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity must be positive for product %s", line.ProductID))
		}
		lines[i] = models.OrderLineItem{
			ProductID:      line.ProductID,
			WarehouseID:    line.WarehouseID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.UnitPriceCents * int64(line.Quantity),
		}
	}

	order := &models.OrderRecord{
		OrderNumber:   orderNumber,
		CustomerID:    input.CustomerID,
		CartID:        input.CartID,
		Status:        enums.OrderStatusPending,
		SubtotalCents: input.SubtotalCents,
		DiscountCents: input.DiscountCents,
		TaxCents:      input.TaxCents,
		ShippingCents: input.ShippingCents,
		TotalCents:    input.TotalCents,
		Items:         lines,
	}
	if err := repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.OrderRecord, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.repo.FindByID(ctx, orderID)
}

func (s *service) Transition(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, to enums.OrderStatus) error {
	repo := s.repo.WithTx(tx)

	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransition(to) {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, to))
	}
	return repo.UpdateStatus(ctx, orderID, to)
}
