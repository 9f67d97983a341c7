package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// Repository manages order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.OrderRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	NextOrderNumber(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an orders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.OrderRecord) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderRecord, error) {
	var order models.OrderRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// NextOrderNumber allocates the next sequential order number. Orders are only
// created inside a managed transaction, so the max+1 read cannot race with a
// concurrent insert for the same number past commit.
func (r *repository) NextOrderNumber(ctx context.Context) (int64, error) {
	var current *int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Select("MAX(order_number)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	const firstOrderNumber = 100000
	if current == nil || *current < firstOrderNumber {
		return firstOrderNumber, nil
	}
	return *current + 1, nil
}
