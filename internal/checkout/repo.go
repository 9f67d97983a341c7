package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// Repository persists checkout sessions. Session progress writes run on the
// base connection, not inside step transactions, so the audit trail survives
// a step rollback.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, session *models.CheckoutSession) error
	Update(ctx context.Context, session *models.CheckoutSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error)
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]models.CheckoutSession, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a checkout session repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) Update(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListStale returns in-flight sessions whose last update predates the cutoff.
// The sweeper cancels them so their holds do not linger after a crash.
func (r *repository) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]models.CheckoutSession, error) {
	var sessions []models.CheckoutSession
	query := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at <= ?", []enums.CheckoutStatus{
			enums.CheckoutStatusInitiated,
			enums.CheckoutStatusCreditReserved,
			enums.CheckoutStatusStockReserved,
			enums.CheckoutStatusOrderCreated,
			enums.CheckoutStatusPaymentCaptured,
			enums.CheckoutStatusRollingBack,
		}, cutoff).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
