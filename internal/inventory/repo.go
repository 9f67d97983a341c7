package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// Repository manages warehouses, stock levels and persisted reservations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActiveWarehouses(ctx context.Context) ([]models.Warehouse, error)
	FindStockForUpdate(ctx context.Context, productID uuid.UUID) ([]models.StockLevel, error)
	FindStock(ctx context.Context, productID uuid.UUID) ([]models.StockLevel, error)
	UpdateStockLevel(ctx context.Context, level *models.StockLevel) error
	CreateReservations(ctx context.Context, reservations []models.StockReservation) error
	FindReservationsByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]models.StockReservation, error)
	UpdateReservation(ctx context.Context, reservation *models.StockReservation) error
	ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.StockReservation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActiveWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("priority ASC").
		Find(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *repository) FindStockForUpdate(ctx context.Context, productID uuid.UUID) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Find(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *repository) FindStock(ctx context.Context, productID uuid.UUID) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *repository) UpdateStockLevel(ctx context.Context, level *models.StockLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

func (r *repository) CreateReservations(ctx context.Context, reservations []models.StockReservation) error {
	if len(reservations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&reservations).Error
}

func (r *repository) FindReservationsByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]models.StockReservation, error) {
	var reservations []models.StockReservation
	err := r.db.WithContext(ctx).
		Where("checkout_id = ?", checkoutID).
		Order("created_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) UpdateReservation(ctx context.Context, reservation *models.StockReservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

func (r *repository) ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.StockReservation, error) {
	var reservations []models.StockReservation
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", enums.StockReservationStatusActive, cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}
