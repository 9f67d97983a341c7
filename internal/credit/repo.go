package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
)

// Repository manages persistence for customer credit lines and the
// reservation ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAccountForUpdate(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error)
	FindAccount(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error)
	UpdateAccountUsage(ctx context.Context, customerID uuid.UUID, creditUsedCents int64) error
	CreateReservation(ctx context.Context, reservation *models.CreditReservation) error
	FindReservationForUpdate(ctx context.Context, reservationID uuid.UUID) (*models.CreditReservation, error)
	UpdateReservation(ctx context.Context, reservation *models.CreditReservation) error
	ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.CreditReservation, error)
	CreateTransaction(ctx context.Context, entry *models.CreditTransaction) error
	ListTransactions(ctx context.Context, customerID uuid.UUID, limit int) ([]models.CreditTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a credit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindAccountForUpdate(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error) {
	var account models.CustomerAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", customerID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindAccount(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error) {
	var account models.CustomerAccount
	err := r.db.WithContext(ctx).
		Where("id = ?", customerID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) UpdateAccountUsage(ctx context.Context, customerID uuid.UUID, creditUsedCents int64) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerAccount{}).
		Where("id = ?", customerID).
		Update("credit_used_cents", creditUsedCents).Error
}

func (r *repository) CreateReservation(ctx context.Context, reservation *models.CreditReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) FindReservationForUpdate(ctx context.Context, reservationID uuid.UUID) (*models.CreditReservation, error) {
	var reservation models.CreditReservation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", reservationID).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) UpdateReservation(ctx context.Context, reservation *models.CreditReservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

func (r *repository) ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.CreditReservation, error) {
	var reservations []models.CreditReservation
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", enums.CreditReservationStatusActive, cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) CreateTransaction(ctx context.Context, entry *models.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListTransactions(ctx context.Context, customerID uuid.UUID, limit int) ([]models.CreditTransaction, error) {
	var entries []models.CreditTransaction
	query := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
