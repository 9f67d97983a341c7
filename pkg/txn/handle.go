package txn

import (
	"fmt"

	"gorm.io/gorm"
)

// Handle is the unit of work's view of an open transaction. It exposes the
// statement surface plus named savepoints for partial rollback without
// aborting the whole attempt.
type Handle struct {
	tx   *gorm.DB
	meta *Metadata
}

// DB returns the transaction-scoped statement handle.
func (h *Handle) DB() *gorm.DB {
	return h.tx
}

// TransactionID returns the generated id tagging this attempt's audit log.
func (h *Handle) TransactionID() string {
	return h.meta.TransactionID
}

// Savepoint creates a named checkpoint inside the open transaction. An empty
// name gets a generated one; the chosen name is returned either way.
func (h *Handle) Savepoint(name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("sp_%d", len(h.meta.Savepoints)+1)
	}
	if err := h.tx.SavePoint(name).Error; err != nil {
		return "", fmt.Errorf("creating savepoint %s: %w", name, err)
	}
	h.meta.Savepoints = append(h.meta.Savepoints, name)
	return name, nil
}

// RollbackToSavepoint unwinds statements issued after the named checkpoint.
// The savepoint itself survives and may be rolled back to again.
func (h *Handle) RollbackToSavepoint(name string) error {
	if !h.hasSavepoint(name) {
		return fmt.Errorf("unknown savepoint %s", name)
	}
	if err := h.tx.RollbackTo(name).Error; err != nil {
		return fmt.Errorf("rolling back to savepoint %s: %w", name, err)
	}
	return nil
}

// ReleaseSavepoint discards the named checkpoint, keeping its effects.
func (h *Handle) ReleaseSavepoint(name string) error {
	if !h.hasSavepoint(name) {
		return fmt.Errorf("unknown savepoint %s", name)
	}
	if err := h.tx.Exec("RELEASE SAVEPOINT " + name).Error; err != nil {
		return fmt.Errorf("releasing savepoint %s: %w", name, err)
	}
	h.removeSavepoint(name)
	return nil
}

func (h *Handle) hasSavepoint(name string) bool {
	for _, candidate := range h.meta.Savepoints {
		if candidate == name {
			return true
		}
	}
	return false
}

func (h *Handle) removeSavepoint(name string) {
	kept := h.meta.Savepoints[:0]
	for _, candidate := range h.meta.Savepoints {
		if candidate != name {
			kept = append(kept, candidate)
		}
	}
	h.meta.Savepoints = kept
}
