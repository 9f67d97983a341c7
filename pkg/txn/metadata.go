package txn

import (
	"database/sql"
	"time"
)

// Status is the observed state of one transaction attempt.
type Status string

const (
	StatusPending    Status = "pending"
	StatusActive     Status = "active"
	StatusCommitted  Status = "committed"
	StatusRolledBack Status = "rolled_back"
	StatusFailed     Status = "failed"
)

// Metadata describes one transaction attempt. It is logged, not persisted;
// the relational store remains the system of record.
type Metadata struct {
	TransactionID string
	Isolation     sql.IsolationLevel
	Status        Status
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	RetryCount    int
	Savepoints    []string
	Err           error
}

func (m *Metadata) finish(status Status, err error) {
	m.Status = status
	m.CompletedAt = time.Now()
	m.Duration = m.CompletedAt.Sub(m.StartedAt)
	m.Err = err
}
