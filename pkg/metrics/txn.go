package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TxnMetrics is the fixed counter set the transaction runner exposes.
type TxnMetrics struct {
	started    prometheus.Counter
	committed  prometheus.Counter
	rolledBack prometheus.Counter
	failed     prometheus.Counter
	retried    prometheus.Counter
	deadlocks  prometheus.Counter
	active     prometheus.Gauge
}

// NewTxnMetrics registers the transaction metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps tests quiet.
func NewTxnMetrics(reg prometheus.Registerer) *TxnMetrics {
	if reg == nil {
		return &TxnMetrics{}
	}
	m := &TxnMetrics{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_txn_started_total",
			Help: "Transactions started.",
		}),
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_txn_committed_total",
			Help: "Transactions committed.",
		}),
		rolledBack: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_txn_rolled_back_total",
			Help: "Transactions rolled back.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_txn_failed_total",
			Help: "Transactions that failed after rollback.",
		}),
		retried: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_txn_retried_total",
			Help: "Transaction attempts retried after transient conflicts.",
		}),
		deadlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_txn_deadlocks_total",
			Help: "Deadlock or serialization conflicts observed.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "erp_txn_active",
			Help: "Transactions currently in flight.",
		}),
	}
	reg.MustRegister(m.started, m.committed, m.rolledBack, m.failed, m.retried, m.deadlocks, m.active)
	return m
}

func (m *TxnMetrics) IncStarted() {
	if m == nil || m.started == nil {
		return
	}
	m.started.Inc()
	m.active.Inc()
}

func (m *TxnMetrics) IncCommitted() {
	if m == nil || m.committed == nil {
		return
	}
	m.committed.Inc()
	m.active.Dec()
}

func (m *TxnMetrics) IncRolledBack() {
	if m == nil || m.rolledBack == nil {
		return
	}
	m.rolledBack.Inc()
	m.active.Dec()
}

func (m *TxnMetrics) IncFailed() {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.Inc()
}

func (m *TxnMetrics) IncRetried() {
	if m == nil || m.retried == nil {
		return
	}
	m.retried.Inc()
}

func (m *TxnMetrics) IncDeadlocks() {
	if m == nil || m.deadlocks == nil {
		return
	}
	m.deadlocks.Inc()
}
