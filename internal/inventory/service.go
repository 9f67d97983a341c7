package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// ReservationRequest asks for a quantity of one product.
type ReservationRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// ItemReservation is the per-product outcome of a reservation pass.
type ItemReservation struct {
	ProductID uuid.UUID
	Plan      AllocationPlan
}

// ReserveResult aggregates per-item outcomes. Shortfalls lists the products
// that could not be fully allocated; the caller decides whether partial
// fulfillment is acceptable.
type ReserveResult struct {
	Items      []ItemReservation
	Shortfalls []ItemReservation
}

// AvailabilitySnapshot is the cacheable per-product stock summary.
type AvailabilitySnapshot struct {
	ProductID    string `json:"product_id"`
	AvailableQty int    `json:"available_qty"`
	ReservedQty  int    `json:"reserved_qty"`
	Warehouses   int    `json:"warehouses"`
}

// availabilityCache is the injected cache port for stock snapshots.
type availabilityCache interface {
	GetStockAvailability(ctx context.Context, productID string) (string, error)
	CacheStockAvailability(ctx context.Context, productID, snapshot string, ttl time.Duration) error
	InvalidateStockAvailability(ctx context.Context, productIDs ...string) error
}

type cacheMissChecker func(error) bool

// Service reserves, commits and releases warehouse stock. Reservation runs
// inside the caller's transaction with the product's stock rows locked, so
// concurrent checkouts for the same product serialize per row.
type Service interface {
	Reserve(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, requests []ReservationRequest) (*ReserveResult, error)
	ReleaseByCheckout(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, reason string) (int, error)
	CommitByCheckout(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, orderID uuid.UUID) (int, error)
	ExpireDue(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error)
	Availability(ctx context.Context, productID uuid.UUID) (*AvailabilitySnapshot, error)
}

type service struct {
	repo        Repository
	cache       availabilityCache
	isCacheMiss cacheMissChecker
	logg        *logger.Logger
	ttl         time.Duration
	cacheTTL    time.Duration
}

const defaultStockTTL = 72 * time.Hour

// NewService wires an inventory service. cache may be nil when no cache is
// configured.
func NewService(repo Repository, cache availabilityCache, isCacheMiss cacheMissChecker, logg *logger.Logger, reservationTTL, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if reservationTTL <= 0 {
		reservationTTL = defaultStockTTL
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	if isCacheMiss == nil {
		isCacheMiss = func(error) bool { return false }
	}
	return &service{
		repo:        repo,
		cache:       cache,
		isCacheMiss: isCacheMiss,
		logg:        logg,
		ttl:         reservationTTL,
		cacheTTL:    cacheTTL,
	}, nil
}

func (s *service) Reserve(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, requests []ReservationRequest) (*ReserveResult, error) {
	if checkoutID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout id required")
	}
	for _, request := range requests {
		if request.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity must be positive for product %s", request.ProductID))
		}
	}

	repo := s.repo.WithTx(tx)

	warehouses, err := repo.ListActiveWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	ranks := make([]WarehouseRank, len(warehouses))
	for i, warehouse := range warehouses {
		ranks[i] = WarehouseRank{ID: warehouse.ID, Priority: warehouse.Priority}
	}

	result := &ReserveResult{}
	expiresAt := time.Now().Add(s.ttl)
	touched := make([]string, 0, len(requests))

	for _, request := range requests {
		levels, err := repo.FindStockForUpdate(ctx, request.ProductID)
		if err != nil {
			return nil, err
		}
		if len(levels) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound,
				fmt.Sprintf("no stock records for product %s", request.ProductID))
		}

		availability := make([]Availability, len(levels))
		levelBy := make(map[uuid.UUID]*models.StockLevel, len(levels))
		for i := range levels {
			availability[i] = Availability{
				WarehouseID:  levels[i].WarehouseID,
				AvailableQty: levels[i].AvailableQty,
			}
			levelBy[levels[i].WarehouseID] = &levels[i]
		}

		plan := Allocate(request.Quantity, ranks, availability)
		item := ItemReservation{ProductID: request.ProductID, Plan: plan}
		result.Items = append(result.Items, item)
		if !plan.Fulfilled {
			result.Shortfalls = append(result.Shortfalls, item)
		}

		reservations := make([]models.StockReservation, 0, len(plan.Allocations))
		for _, alloc := range plan.Allocations {
			level := levelBy[alloc.WarehouseID]
			level.AvailableQty -= alloc.Quantity
			level.ReservedQty += alloc.Quantity
			if err := repo.UpdateStockLevel(ctx, level); err != nil {
				return nil, err
			}
			reservations = append(reservations, models.StockReservation{
				CheckoutID:  checkoutID,
				ProductID:   request.ProductID,
				WarehouseID: alloc.WarehouseID,
				Quantity:    alloc.Quantity,
				Status:      enums.StockReservationStatusActive,
				ExpiresAt:   expiresAt,
			})
		}
		if err := repo.CreateReservations(ctx, reservations); err != nil {
			return nil, err
		}
		touched = append(touched, request.ProductID.String())
	}

	s.invalidate(ctx, touched)
	return result, nil
}

func (s *service) ReleaseByCheckout(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, reason string) (int, error) {
	if checkoutID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "checkout id required")
	}

	repo := s.repo.WithTx(tx)

	reservations, err := repo.FindReservationsByCheckout(ctx, checkoutID)
	if err != nil {
		return 0, err
	}

	released := 0
	touched := make([]string, 0, len(reservations))
	for i := range reservations {
		reservation := &reservations[i]
		if reservation.Status != enums.StockReservationStatusActive {
			continue
		}
		if err := s.releaseOne(ctx, repo, reservation, enums.StockReservationStatusReleased); err != nil {
			return released, err
		}
		released++
		touched = append(touched, reservation.ProductID.String())
	}

	if released > 0 && s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"checkout_id": checkoutID.String(),
			"released":    released,
			"reason":      reason,
		})
		s.logg.Info(ctx, "stock reservations released")
	}
	s.invalidate(ctx, touched)
	return released, nil
}

func (s *service) CommitByCheckout(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, orderID uuid.UUID) (int, error) {
	if checkoutID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "checkout id required")
	}

	repo := s.repo.WithTx(tx)

	reservations, err := repo.FindReservationsByCheckout(ctx, checkoutID)
	if err != nil {
		return 0, err
	}

	committed := 0
	for i := range reservations {
		reservation := &reservations[i]
		if reservation.Status != enums.StockReservationStatusActive {
			continue
		}
		levels, err := repo.FindStockForUpdate(ctx, reservation.ProductID)
		if err != nil {
			return committed, err
		}
		for j := range levels {
			if levels[j].WarehouseID != reservation.WarehouseID {
				continue
			}
			levels[j].ReservedQty -= reservation.Quantity
			if levels[j].ReservedQty < 0 {
				levels[j].ReservedQty = 0
			}
			if err := repo.UpdateStockLevel(ctx, &levels[j]); err != nil {
				return committed, err
			}
		}
		reservation.Status = enums.StockReservationStatusCommitted
		if orderID != uuid.Nil {
			reservation.OrderID = &orderID
		}
		if err := repo.UpdateReservation(ctx, reservation); err != nil {
			return committed, err
		}
		committed++
	}
	return committed, nil
}

func (s *service) ExpireDue(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error) {
	repo := s.repo.WithTx(tx)

	due, err := repo.ListExpiredActive(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	touched := make([]string, 0, len(due))
	for i := range due {
		reservation := &due[i]
		if err := s.releaseOne(ctx, repo, reservation, enums.StockReservationStatusExpired); err != nil {
			return expired, err
		}
		expired++
		touched = append(touched, reservation.ProductID.String())
	}
	s.invalidate(ctx, touched)
	return expired, nil
}

func (s *service) Availability(ctx context.Context, productID uuid.UUID) (*AvailabilitySnapshot, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if s.cache != nil {
		cached, err := s.cache.GetStockAvailability(ctx, productID.String())
		if err == nil && cached != "" {
			var snapshot AvailabilitySnapshot
			if jsonErr := json.Unmarshal([]byte(cached), &snapshot); jsonErr == nil {
				return &snapshot, nil
			}
		} else if err != nil && !s.isCacheMiss(err) && s.logg != nil {
			s.logg.Warn(ctx, "stock cache read failed")
		}
	}

	levels, err := s.repo.FindStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound,
			fmt.Sprintf("no stock records for product %s", productID))
	}

	snapshot := &AvailabilitySnapshot{ProductID: productID.String(), Warehouses: len(levels)}
	for _, level := range levels {
		snapshot.AvailableQty += level.AvailableQty
		snapshot.ReservedQty += level.ReservedQty
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(snapshot); err == nil {
			if cacheErr := s.cache.CacheStockAvailability(ctx, snapshot.ProductID, string(encoded), s.cacheTTL); cacheErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "stock cache write failed")
			}
		}
	}
	return snapshot, nil
}

func (s *service) releaseOne(ctx context.Context, repo Repository, reservation *models.StockReservation, status enums.StockReservationStatus) error {
	levels, err := repo.FindStockForUpdate(ctx, reservation.ProductID)
	if err != nil {
		return err
	}
	for j := range levels {
		if levels[j].WarehouseID != reservation.WarehouseID {
			continue
		}
		levels[j].AvailableQty += reservation.Quantity
		levels[j].ReservedQty -= reservation.Quantity
		if levels[j].ReservedQty < 0 {
			levels[j].ReservedQty = 0
		}
		if err := repo.UpdateStockLevel(ctx, &levels[j]); err != nil {
			return err
		}
	}

	now := time.Now()
	reservation.Status = status
	reservation.ReleasedAt = &now
	return repo.UpdateReservation(ctx, reservation)
}

func (s *service) invalidate(ctx context.Context, productIDs []string) {
	if s.cache == nil || len(productIDs) == 0 {
		return
	}
	if err := s.cache.InvalidateStockAvailability(ctx, productIDs...); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "stock cache invalidation failed")
	}
}
