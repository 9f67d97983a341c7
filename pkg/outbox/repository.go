package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert records an event inside the caller's transaction so the event
// commits or rolls back together with the state change that produced it.
func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchUnpublishedForPublish claims a batch of undelivered events for the
// publisher. Rows are locked with SKIP LOCKED so concurrent publisher
// replicas never pick the same batch.
func (r *Repository) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if tx == nil {
		return nil, errors.New("transaction required")
	}
	var rows []models.OutboxEvent
	query := tx.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit)
	if maxAttempts > 0 {
		query = query.Where("attempt_count < ?", maxAttempts)
	}
	err := query.Find(&rows).Error
	return rows, err
}

// FetchUnpublished returns undelivered events without claiming them.
func (r *Repository) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.Where("published_at IS NULL").
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return markPublished(tx, id)
}

func (r *Repository) MarkPublished(id uuid.UUID) error {
	return markPublished(r.db, id)
}

func markPublished(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published_at": time.Now(),
		}).Error
}

func (r *Repository) MarkFailedTx(tx *gorm.DB, id uuid.UUID, cause error) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return markFailed(tx, id, cause)
}

func (r *Repository) MarkFailed(id uuid.UUID, cause error) error {
	return markFailed(r.db, id, cause)
}

func markFailed(db *gorm.DB, id uuid.UUID, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error":    message,
			"attempt_count": gorm.Expr("attempt_count + 1"),
		}).Error
}
