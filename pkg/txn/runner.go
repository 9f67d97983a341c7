package txn

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	dbpkg "github.com/leduxro-prog/erp-dashboard-sub012/pkg/db"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/metrics"
)

const (
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 100 * time.Millisecond
	DefaultRetryMaxDelay  = 5 * time.Second
	DefaultTimeout        = 30 * time.Second
)

// Options configures one Run call. Zero values fall back to the runner
// defaults.
type Options struct {
	Isolation      sql.IsolationLevel
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	Timeout        time.Duration

	// Label tags audit log entries so concurrent flows are tellable apart.
	Label string
}

// Runner executes units of work inside managed database transactions with
// isolation selection, deadlock retry, savepoints, and timeout enforcement.
// Only deadlock and serialization conflicts are retried; every other failure
// rolls back once and surfaces immediately.
type Runner struct {
	db       *gorm.DB
	logg     *logger.Logger
	metrics  *metrics.TxnMetrics
	defaults Options

	// retryable classifies transient conflicts; swapped in tests to
	// simulate deadlocks without a real Postgres.
	retryable func(error) bool
}

// NewRunner builds a Runner bound to the given database handle.
func NewRunner(db *gorm.DB, cfg config.TxnConfig, logg *logger.Logger, m *metrics.TxnMetrics) (*Runner, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	isolation, err := parseIsolation(cfg.Isolation)
	if err != nil {
		return nil, err
	}
	defaults := Options{
		Isolation:      isolation,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
		RetryMaxDelay:  cfg.RetryMaxDelay,
		Timeout:        cfg.Timeout,
	}
	if defaults.MaxRetries <= 0 {
		defaults.MaxRetries = DefaultMaxRetries
	}
	if defaults.RetryBaseDelay <= 0 {
		defaults.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if defaults.RetryMaxDelay <= 0 {
		defaults.RetryMaxDelay = DefaultRetryMaxDelay
	}
	if defaults.Timeout <= 0 {
		defaults.Timeout = DefaultTimeout
	}
	return &Runner{
		db:        db,
		logg:      logg,
		metrics:   m,
		defaults:  defaults,
		retryable: dbpkg.IsRetryableConflict,
	}, nil
}

// parseIsolation maps the config value to a driver isolation level. The
// "default" value lets the driver decide, which sqlite needs.
func parseIsolation(value string) (sql.IsolationLevel, error) {
	switch value {
	case "", "read_committed":
		return sql.LevelReadCommitted, nil
	case "default":
		return sql.LevelDefault, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unknown isolation level %q", value)
	}
}

func (r *Runner) resolve(opts Options) Options {
	if opts.Isolation == sql.LevelDefault {
		opts.Isolation = r.defaults.Isolation
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = r.defaults.MaxRetries
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = r.defaults.RetryBaseDelay
	}
	if opts.RetryMaxDelay <= 0 {
		opts.RetryMaxDelay = r.defaults.RetryMaxDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = r.defaults.Timeout
	}
	return opts
}

// Run executes fn inside a transaction at the requested isolation level.
// Transient conflicts are rolled back and retried with exponential backoff up
// to MaxRetries; the Metadata returned reflects the final attempt.
func (r *Runner) Run(ctx context.Context, opts Options, fn func(h *Handle) error) (*Metadata, error) {
	opts = r.resolve(opts)

	var meta *Metadata
	for attempt := 0; ; attempt++ {
		var err error
		meta, err = r.attempt(ctx, opts, attempt, fn)
		if err == nil {
			return meta, nil
		}

		// timeout and non-transient failures are never retried
		if !r.retryable(err) || pkgerrors.HasCode(err, pkgerrors.CodeTransactionTimeout) {
			r.metrics.IncFailed()
			return meta, err
		}

		r.metrics.IncDeadlocks()
		if attempt >= opts.MaxRetries {
			r.metrics.IncFailed()
			exhausted := pkgerrors.Wrap(pkgerrors.CodeDeadlockRetriesExhausted, err,
				fmt.Sprintf("transaction aborted after %d retries", attempt))
			meta.Err = exhausted
			r.logAttempt(ctx, meta, "transaction retries exhausted")
			return meta, exhausted
		}

		r.metrics.IncRetried()
		delay := backoffDelay(opts.RetryBaseDelay, opts.RetryMaxDelay, attempt)
		r.logAttempt(ctx, meta, fmt.Sprintf("transient conflict, retrying in %s", delay))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			r.metrics.IncFailed()
			return meta, pkgerrors.Wrap(pkgerrors.CodeTransactionTimeout, ctx.Err(), "context cancelled during retry backoff")
		}
	}
}

func (r *Runner) attempt(ctx context.Context, opts Options, retryCount int, fn func(h *Handle) error) (*Metadata, error) {
	meta := &Metadata{
		TransactionID: uuid.NewString(),
		Isolation:     opts.Isolation,
		RetryCount:    retryCount,
		StartedAt:     time.Now(),
	}

	attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx := r.db.WithContext(attemptCtx).Begin(&sql.TxOptions{Isolation: opts.Isolation})
	if tx.Error != nil {
		meta.finish(StatusFailed, tx.Error)
		return meta, pkgerrors.Wrap(pkgerrors.CodeDependency, tx.Error, "beginning transaction")
	}
	meta.Status = StatusActive
	r.metrics.IncStarted()
	r.logAttempt(ctx, meta, "transaction started")

	handle := &Handle{tx: tx, meta: meta}

	// watchdog: force-rollback stalled work once the attempt deadline passes
	watchdogDone := make(chan struct{})
	timedOut := make(chan struct{})
	go func() {
		select {
		case <-attemptCtx.Done():
			if attemptCtx.Err() == context.DeadlineExceeded {
				close(timedOut)
				tx.Rollback()
			}
		case <-watchdogDone:
		}
	}()

	err := runRecovered(handle, fn)
	close(watchdogDone)

	select {
	case <-timedOut:
		meta.finish(StatusRolledBack, attemptCtx.Err())
		r.metrics.IncRolledBack()
		timeoutErr := pkgerrors.Wrap(pkgerrors.CodeTransactionTimeout, err,
			fmt.Sprintf("transaction exceeded %s deadline", opts.Timeout))
		meta.Err = timeoutErr
		r.logAttempt(ctx, meta, "transaction timed out, forced rollback")
		return meta, timeoutErr
	default:
	}

	if err != nil {
		tx.Rollback()
		meta.finish(StatusRolledBack, err)
		r.metrics.IncRolledBack()
		r.logAttempt(ctx, meta, "transaction rolled back")
		return meta, err
	}

	if err := tx.Commit().Error; err != nil {
		meta.finish(StatusFailed, err)
		r.metrics.IncRolledBack()
		r.logAttempt(ctx, meta, "transaction commit failed")
		return meta, err
	}

	meta.finish(StatusCommitted, nil)
	r.metrics.IncCommitted()
	r.logAttempt(ctx, meta, "transaction committed")
	return meta, nil
}

func runRecovered(h *Handle, fn func(h *Handle) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in unit of work: %v", rec)
		}
	}()
	return fn(h)
}

func (r *Runner) logAttempt(ctx context.Context, meta *Metadata, msg string) {
	if r.logg == nil {
		return
	}
	fields := map[string]any{
		"transaction_id": meta.TransactionID,
		"isolation":      meta.Isolation.String(),
		"status":         string(meta.Status),
		"retry_count":    meta.RetryCount,
		"duration_ms":    meta.Duration.Milliseconds(),
	}
	logCtx := r.logg.WithFields(ctx, fields)
	if meta.Err != nil {
		r.logg.Warn(logCtx, msg)
		return
	}
	r.logg.Info(logCtx, msg)
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	delay := base << uint(attempt)
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}
