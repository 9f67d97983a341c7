package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/txn"
)

const staleCancelReason = "stale checkout reaped"

type txRunner interface {
	Run(ctx context.Context, opts txn.Options, fn func(*txn.Handle) error) (*txn.Metadata, error)
}

type expirer interface {
	ExpireDue(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error)
}

type cartAbandoner interface {
	AbandonExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error)
}

type staleSessionSource interface {
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]models.CheckoutSession, error)
}

type checkoutCanceler interface {
	Cancel(ctx context.Context, checkoutID uuid.UUID, reason string) (*models.CheckoutSession, error)
}

type ServiceParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Runner   txRunner
	Credit   expirer
	Stock    expirer
	Carts    cartAbandoner
	Sessions staleSessionSource
	Checkout checkoutCanceler
}

// Service periodically releases expired credit and stock reservations and
// cancels checkout sessions that stalled mid-flight, so abandoned holds
// cannot pin credit or inventory forever.
type Service struct {
	cfg        config.SweeperConfig
	logg       *logger.Logger
	runner     txRunner
	credit     expirer
	stock      expirer
	carts      cartAbandoner
	sessions   staleSessionSource
	checkout   checkoutCanceler
	interval   time.Duration
	batchSize  int
	staleAfter time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Runner == nil {
		return nil, errors.New("transaction runner is required")
	}
	if params.Credit == nil {
		return nil, errors.New("credit service is required")
	}
	if params.Stock == nil {
		return nil, errors.New("inventory service is required")
	}
	if params.Carts == nil {
		return nil, errors.New("cart service is required")
	}
	if params.Sessions == nil {
		return nil, errors.New("checkout repository is required")
	}
	if params.Checkout == nil {
		return nil, errors.New("checkout service is required")
	}

	cfg := params.Config.Sweeper
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}

	return &Service{
		cfg:        cfg,
		logg:       params.Logger,
		runner:     params.Runner,
		credit:     params.Credit,
		stock:      params.Stock,
		carts:      params.Carts,
		sessions:   params.Sessions,
		checkout:   params.Checkout,
		interval:   interval,
		batchSize:  batch,
		staleAfter: staleAfter,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// One pass up front so a crash-restart loop still makes progress.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "sweeper context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	now := time.Now().UTC()

	s.expire(ctx, "sweep.credit_expiry", s.credit, now)
	s.expire(ctx, "sweep.stock_expiry", s.stock, now)
	s.abandonCarts(ctx, now)
	s.reapStale(ctx, now.Add(-s.staleAfter))
}

func (s *Service) abandonCarts(ctx context.Context, cutoff time.Time) {
	var abandoned int
	_, err := s.runner.Run(ctx, txn.Options{Label: "sweep.cart_abandonment"}, func(h *txn.Handle) error {
		n, err := s.carts.AbandonExpired(ctx, h.DB(), cutoff, s.batchSize)
		abandoned = n
		return err
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "sweep", "sweep.cart_abandonment"), "cart abandonment sweep failed", err)
		return
	}
	if abandoned > 0 {
		fields := map[string]any{"sweep": "sweep.cart_abandonment", "abandoned": abandoned}
		s.logg.Info(s.logg.WithFields(ctx, fields), "expired carts abandoned")
	}
}

func (s *Service) expire(ctx context.Context, label string, svc expirer, cutoff time.Time) {
	var expired int
	_, err := s.runner.Run(ctx, txn.Options{Label: label}, func(h *txn.Handle) error {
		n, err := svc.ExpireDue(ctx, h.DB(), cutoff, s.batchSize)
		expired = n
		return err
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "sweep", label), "reservation expiry sweep failed", err)
		return
	}
	if expired > 0 {
		fields := map[string]any{"sweep": label, "expired": expired}
		s.logg.Info(s.logg.WithFields(ctx, fields), "expired reservations released")
	}
}

func (s *Service) reapStale(ctx context.Context, cutoff time.Time) {
	stale, err := s.sessions.ListStale(ctx, cutoff, s.batchSize)
	if err != nil {
		s.logg.Error(ctx, "listing stale checkout sessions failed", err)
		return
	}

	for _, session := range stale {
		ctxWithID := s.logg.WithField(ctx, "checkout_id", session.ID.String())
		if _, err := s.checkout.Cancel(ctx, session.ID, staleCancelReason); err != nil {
			// A session that completed or got cancelled since the list
			// query is expected to reject the cancel; skip it.
			if pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
				continue
			}
			s.logg.Error(ctxWithID, "cancelling stale checkout failed", err)
			continue
		}
		s.logg.Info(ctxWithID, "stale checkout cancelled")
	}
}
