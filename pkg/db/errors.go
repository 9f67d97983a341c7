package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes for transient concurrency failures.
const (
	pgCodeDeadlockDetected     = "40P01"
	pgCodeSerializationFailure = "40001"
)

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper looks
// for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}

// IsRetryableConflict reports whether err is a deadlock or serialization
// failure the store may resolve on retry. It understands pgx driver errors and
// falls back to message sniffing so non-Postgres test doubles can simulate
// conflicts.
func IsRetryableConflict(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeDeadlockDetected || pgErr.Code == pgCodeSerializationFailure
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") || strings.Contains(msg, "could not serialize access")
}
