package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// Gateway is the payment-capture port consumed by checkout. Every capture
// must be voidable so a later saga failure can compensate it.
type Gateway interface {
	Capture(ctx context.Context, orderID uuid.UUID, amountCents int64) (*CaptureResult, error)
	Void(ctx context.Context, captureID string) error
}

// CaptureResult identifies a successful capture for later compensation.
type CaptureResult struct {
	CaptureID   string
	OrderID     uuid.UUID
	AmountCents int64
}

// DeferredGateway records captures without contacting a real processor.
// B2B credit-line orders are settled by invoice, so "capture" here marks the
// amount as owed and stays voidable until invoicing runs.
type DeferredGateway struct {
	mu       sync.Mutex
	captures map[string]*CaptureResult
	logg     *logger.Logger
}

// NewDeferredGateway builds the invoice-settled gateway.
func NewDeferredGateway(logg *logger.Logger) *DeferredGateway {
	return &DeferredGateway{
		captures: make(map[string]*CaptureResult),
		logg:     logg,
	}
}

func (g *DeferredGateway) Capture(ctx context.Context, orderID uuid.UUID, amountCents int64) (*CaptureResult, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order id required")
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("capture amount must be positive")
	}

	result := &CaptureResult{
		CaptureID:   uuid.NewString(),
		OrderID:     orderID,
		AmountCents: amountCents,
	}

	g.mu.Lock()
	g.captures[result.CaptureID] = result
	g.mu.Unlock()

	if g.logg != nil {
		ctx = g.logg.WithFields(ctx, map[string]any{
			"capture_id":   result.CaptureID,
			"order_id":     orderID.String(),
			"amount_cents": amountCents,
		})
		g.logg.Info(ctx, "payment capture recorded")
	}
	return result, nil
}

func (g *DeferredGateway) Void(ctx context.Context, captureID string) error {
	if captureID == "" {
		return fmt.Errorf("capture id required")
	}

	g.mu.Lock()
	_, ok := g.captures[captureID]
	if ok {
		delete(g.captures, captureID)
	}
	g.mu.Unlock()

	if !ok {
		// Voiding an unknown capture is a no-op so compensation stays idempotent.
		return nil
	}
	if g.logg != nil {
		g.logg.Info(g.logg.WithField(ctx, "capture_id", captureID), "payment capture voided")
	}
	return nil
}

// Captured reports whether a capture is still outstanding.
func (g *DeferredGateway) Captured(captureID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.captures[captureID]
	return ok
}
