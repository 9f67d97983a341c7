package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/outbox"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "event-one"),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "event-two"),
			},
		},
	}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	service := newTestService(t, repo, func(enums.OutboxAggregateType) publisher { return pub }, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != repo.events[1].ID {
		t.Fatalf("published row recorded wrong ID")
	}
}

func TestServiceRoutesCreditReservationToCreditPublisher(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventCreditReserved,
				AggregateType: enums.AggregateCreditReservation,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "credit-event"),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventCheckoutCompleted,
				AggregateType: enums.AggregateCheckout,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "checkout-event"),
			},
		},
	}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{},
			fakePublishResult{},
		},
	}
	var routed []enums.OutboxAggregateType
	factory := func(aggregate enums.OutboxAggregateType) publisher {
		routed = append(routed, aggregate)
		return pub
	}
	service := newTestService(t, repo, factory, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.published); got != 2 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if len(routed) != 2 {
		t.Fatalf("expected two factory calls, got %d", len(routed))
	}
	if routed[0] != enums.AggregateCreditReservation {
		t.Fatalf("first event routed to %s", routed[0])
	}
	if routed[1] != enums.AggregateCheckout {
		t.Fatalf("second event routed to %s", routed[1])
	}
}

func TestServiceProcessBatchSkipsWhenQueueEmpty(t *testing.T) {
	repo := &fakeRepo{}
	service := newTestService(t, repo, func(enums.OutboxAggregateType) publisher {
		t.Fatalf("factory should not be called for an empty batch")
		return nil
	}, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if processed {
		t.Fatalf("expected empty batch to report not processed")
	}
	if len(repo.published) != 0 || len(repo.failed) != 0 {
		t.Fatalf("empty batch must not touch rows")
	}
}

func TestServiceMarksFailureWhenPublisherMissing(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventStockReleased,
				AggregateType: enums.AggregateStockReservation,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "stock-event"),
			},
		},
	}
	service := newTestService(t, repo, func(enums.OutboxAggregateType) publisher { return nil }, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
}

func newTestService(t *testing.T, repo outboxRepository, factory publisherFactory, outboxCfgOverride *config.OutboxConfig) *Service {
	t.Helper()
	outboxCfg := config.OutboxConfig{
		BatchSize:      10,
		PollIntervalMS: 100,
		MaxAttempts:    5,
	}
	if outboxCfgOverride != nil {
		outboxCfg = *outboxCfgOverride
	}
	cfg := &config.Config{
		Outbox: outboxCfg,
	}
	logg := logger.New(logger.Options{
		ServiceName: "outbox-publisher-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:           cfg,
		Logger:           logg,
		DB:               &fakeDB{},
		PubSub:           &fakePubSubClient{},
		Repository:       repo,
		PublisherFactory: factory,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func mustEnvelopePayload(tb testing.TB, eventID string) json.RawMessage {
	tb.Helper()
	env := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{}`),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		tb.Fatalf("marshal envelope: %v", err)
	}
	return payload
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeRepo) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakePubSubClient struct{}

func (f *fakePubSubClient) Ping(context.Context) error {
	return nil
}

func (f *fakePubSubClient) CheckoutPublisher() *gcppubsub.Publisher {
	return nil
}

func (f *fakePubSubClient) CreditPublisher() *gcppubsub.Publisher {
	return nil
}

type fakePublisher struct {
	results []publishResult
}

func (f *fakePublisher) Publish(context.Context, *gcppubsub.Message) publishResult {
	if len(f.results) == 0 {
		return nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(context.Context) (string, error) {
	return "", f.err
}
