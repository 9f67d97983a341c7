package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records saga-level observability counters.
type CheckoutMetrics struct {
	started      prometheus.Counter
	completed    prometheus.Counter
	failed       prometheus.Counter
	rolledBack   prometheus.Counter
	stepDuration *prometheus.HistogramVec
	compFailures prometheus.Counter
}

// NewCheckoutMetrics registers the checkout saga metrics on the provided
// registerer. A nil registerer yields a no-op instance.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	m := &CheckoutMetrics{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_checkout_started_total",
			Help: "Checkout sagas started.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_checkout_completed_total",
			Help: "Checkout sagas completed successfully.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_checkout_failed_total",
			Help: "Checkout sagas that failed.",
		}),
		rolledBack: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_checkout_rolled_back_total",
			Help: "Checkout sagas compensated after a step failure.",
		}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "erp_checkout_step_duration_seconds",
			Help:    "Duration of individual checkout steps in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"step"}),
		compFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_checkout_compensation_failures_total",
			Help: "Compensating actions that themselves failed.",
		}),
	}
	reg.MustRegister(m.started, m.completed, m.failed, m.rolledBack, m.stepDuration, m.compFailures)
	return m
}

func (m *CheckoutMetrics) IncStarted() {
	if m == nil || m.started == nil {
		return
	}
	m.started.Inc()
}

func (m *CheckoutMetrics) IncCompleted() {
	if m == nil || m.completed == nil {
		return
	}
	m.completed.Inc()
}

func (m *CheckoutMetrics) IncFailed() {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.Inc()
}

func (m *CheckoutMetrics) IncRolledBack() {
	if m == nil || m.rolledBack == nil {
		return
	}
	m.rolledBack.Inc()
}

func (m *CheckoutMetrics) IncCompensationFailure() {
	if m == nil || m.compFailures == nil {
		return
	}
	m.compFailures.Inc()
}

// ObserveStep records the duration of the named step.
func (m *CheckoutMetrics) ObserveStep(step string, duration time.Duration) {
	if m == nil || m.stepDuration == nil {
		return
	}
	if step == "" {
		step = "unknown"
	}
	m.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}
