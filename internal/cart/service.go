package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/internal/pricing"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
)

// cartTransitions is the closed set of legal cart status moves.
var cartTransitions = map[enums.CartStatus][]enums.CartStatus{
	enums.CartStatusActive:     {enums.CartStatusProcessing, enums.CartStatusAbandoned},
	enums.CartStatusProcessing: {enums.CartStatusConverted, enums.CartStatusActive, enums.CartStatusAbandoned},
	enums.CartStatusConverted:  {},
	enums.CartStatusAbandoned:  {},
}

// CanTransition reports whether a cart may move from one status to another.
func CanTransition(from, to enums.CartStatus) bool {
	for _, allowed := range cartTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Service owns cart lifecycle around checkout. A cart enters PROCESSING when
// a saga claims it, CONVERTED on success, and back to ACTIVE on failure so
// the customer can retry.
type Service interface {
	CreateCart(ctx context.Context, input CreateCartInput) (*models.CartRecord, error)
	Get(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error)
	ValidateForCheckout(ctx context.Context, tx *gorm.DB, cartID, customerID uuid.UUID) (*models.CartRecord, error)
	Transition(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, to enums.CartStatus) error
	ConvertToOrder(ctx context.Context, tx *gorm.DB, cartID, orderID uuid.UUID) error
	AbandonExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error)
}

// CreateCartInput captures a new cart. Exactly one of CustomerID and
// SessionID must be set.
type CreateCartInput struct {
	CustomerID *uuid.UUID
	SessionID  *string
	Items      []ItemInput
	TTL        time.Duration
}

// ItemInput is one requested line.
type ItemInput struct {
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

type service struct {
	repo    Repository
	pricer  pricing.Service
	cartTTL time.Duration
}

// NewService wires a cart service.
func NewService(repo Repository, pricer pricing.Service, cartTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if cartTTL <= 0 {
		cartTTL = 24 * time.Hour
	}
	return &service{repo: repo, pricer: pricer, cartTTL: cartTTL}, nil
}

func (s *service) CreateCart(ctx context.Context, input CreateCartInput) (*models.CartRecord, error) {
	if (input.CustomerID == nil) == (input.SessionID == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of customer id and session id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart requires at least one item")
	}

	var subtotal int64
	items := make([]models.CartItem, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity must be positive for product %s", item.ProductID))
		}
		if item.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		subtotal += item.UnitPriceCents * int64(item.Quantity)
		items[i] = models.CartItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			Position:       i,
		}
	}

	quote, err := s.pricer.Price(subtotal)
	if err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.cartTTL
	}

	record := &models.CartRecord{
		CustomerID:    input.CustomerID,
		SessionID:     input.SessionID,
		Status:        enums.CartStatusActive,
		SubtotalCents: quote.SubtotalCents,
		DiscountCents: quote.DiscountCents,
		TaxCents:      quote.TaxCents,
		TotalCents:    quote.TotalCents,
		ExpiresAt:     time.Now().Add(ttl),
		Items:         items,
	}
	return s.repo.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	return s.repo.FindByID(ctx, cartID)
}

func (s *service) ValidateForCheckout(ctx context.Context, tx *gorm.DB, cartID, customerID uuid.UUID) (*models.CartRecord, error) {
	repo := s.repo.WithTx(tx)

	record, err := repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if record.CustomerID == nil || *record.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart does not belong to customer")
	}
	if record.Status != enums.CartStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cart is %s, not available for checkout", record.Status))
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart has expired")
	}
	return record, nil
}

func (s *service) Transition(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, to enums.CartStatus) error {
	repo := s.repo.WithTx(tx)

	record, err := repo.FindByID(ctx, cartID)
	if err != nil {
		return err
	}
	if !CanTransition(record.Status, to) {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cart cannot move from %s to %s", record.Status, to))
	}
	return repo.UpdateStatus(ctx, cartID, to)
}

func (s *service) ConvertToOrder(ctx context.Context, tx *gorm.DB, cartID, orderID uuid.UUID) error {
	repo := s.repo.WithTx(tx)

	record, err := repo.FindByID(ctx, cartID)
	if err != nil {
		return err
	}
	if !CanTransition(record.Status, enums.CartStatusConverted) {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cart cannot convert from %s", record.Status))
	}
	if err := repo.LinkOrder(ctx, cartID, orderID); err != nil {
		return err
	}
	return repo.UpdateStatus(ctx, cartID, enums.CartStatusConverted)
}

// AbandonExpired flips ACTIVE carts past their expiry to ABANDONED. Carts a
// saga already claimed stay PROCESSING and are handled by the checkout
// sweeper instead.
func (s *service) AbandonExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error) {
	repo := s.repo.WithTx(tx)

	due, err := repo.ListExpiredActive(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	abandoned := 0
	for _, record := range due {
		if !CanTransition(record.Status, enums.CartStatusAbandoned) {
			continue
		}
		if err := repo.UpdateStatus(ctx, record.ID, enums.CartStatusAbandoned); err != nil {
			return abandoned, err
		}
		abandoned++
	}
	return abandoned, nil
}
