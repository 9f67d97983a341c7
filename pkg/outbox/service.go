package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// DomainEvent is an event recorded in the same transaction as the state change
// it describes. The publisher binary delivers it to Pub/Sub later.
type DomainEvent struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	AggregateID   uuid.UUID
	Data          interface{}
	Version       int
	OccurredAt    time.Time
}

type Service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Emit writes the event row through the caller's open transaction, so the
// event commits or rolls back together with the state change it describes.
func (s *Service) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	envelope, err := buildEnvelope(event)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	row := models.OutboxEvent{
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       json.RawMessage(raw),
	}
	if err := s.repo.Insert(tx, row); err != nil {
		return err
	}

	s.logQueued(ctx, envelope.EventID, event)
	return nil
}

func buildEnvelope(event DomainEvent) (PayloadEnvelope, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return PayloadEnvelope{}, fmt.Errorf("marshal event data: %w", err)
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	version := event.Version
	if version == 0 {
		version = 1
	}

	return PayloadEnvelope{
		Version:    version,
		EventID:    uuid.NewString(),
		OccurredAt: occurredAt,
		Data:       data,
	}, nil
}

func (s *Service) logQueued(ctx context.Context, eventID string, event DomainEvent) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"event_id":       eventID,
		"event_type":     event.EventType,
		"aggregate_id":   event.AggregateID.String(),
		"aggregate_type": event.AggregateType,
	})
	s.logg.Info(logCtx, "outbox event queued")
}
