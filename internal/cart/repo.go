package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// Repository encapsulates cart persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error)
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CartStatus) error
	LinkOrder(ctx context.Context, id, orderID uuid.UUID) error
	ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.CartRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.Status == "" {
		record.Status = enums.CartStatusActive
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("customer_id = ? AND status = ?", customerID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) LinkOrder(ctx context.Context, id, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", id).
		Update("order_id", orderID).Error
}

func (r *repository) ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.CartRecord, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", enums.CartStatusActive, cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []models.CartRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
