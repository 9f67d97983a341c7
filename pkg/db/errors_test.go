package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsRetryableConflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pg deadlock code", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{name: "pg serialization code", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "pg unrelated code", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "wrapped pg error", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}), want: true},
		{name: "deadlock message", err: errors.New("deadlock detected"), want: true},
		{name: "serialize message", err: errors.New("ERROR: could not serialize access due to concurrent update"), want: true},
		{name: "plain error", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableConflict(tt.err); got != tt.want {
				t.Fatalf("IsRetryableConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	err := errors.New(`duplicate key value violates unique constraint "ux_stock_product_warehouse"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic unique violation match")
	}
	if !IsUniqueViolation(err, "ux_stock_product_warehouse") {
		t.Fatal("expected constraint-specific match")
	}
	if IsUniqueViolation(err, "ux_other") {
		t.Fatal("unexpected match for different constraint")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}
