package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/internal/cart"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/credit"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/inventory"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/orders"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/payments"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/metrics"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/outbox"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/outbox/payloads"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/txn"
)

// txRunner is the transaction boundary each saga step runs inside.
type txRunner interface {
	Run(ctx context.Context, opts txn.Options, fn func(h *txn.Handle) error) (*txn.Metadata, error)
}

// outboxEmitter records domain events in the step's transaction.
type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service drives the checkout saga. Each step commits in its own
// transaction so completed work is durable; when a later step fails the
// completed steps are unwound by explicit compensations in reverse order
// rather than by transaction rollback.
type Service interface {
	Execute(ctx context.Context, input ExecuteInput) (*models.CheckoutSession, error)
	Get(ctx context.Context, checkoutID uuid.UUID) (*models.CheckoutSession, error)
	Cancel(ctx context.Context, checkoutID uuid.UUID, reason string) (*models.CheckoutSession, error)
}

// ExecuteInput identifies the cart a customer is checking out.
type ExecuteInput struct {
	CustomerID uuid.UUID
	CartID     uuid.UUID
}

type service struct {
	repo      Repository
	tx        txRunner
	carts     cart.Service
	credit    credit.Service
	inventory inventory.Service
	orders    orders.Service
	gateway   payments.Gateway
	outbox    outboxEmitter
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
}

// NewService builds the checkout orchestrator.
func NewService(
	repo Repository,
	tx txRunner,
	carts cart.Service,
	creditSvc credit.Service,
	inventorySvc inventory.Service,
	ordersSvc orders.Service,
	gateway payments.Gateway,
	emitter outboxEmitter,
	logg *logger.Logger,
	m *metrics.CheckoutMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if creditSvc == nil {
		return nil, fmt.Errorf("credit service required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		carts:     carts,
		credit:    creditSvc,
		inventory: inventorySvc,
		orders:    ordersSvc,
		gateway:   gateway,
		outbox:    emitter,
		logg:      logg,
		metrics:   m,
	}, nil
}

// sagaRun carries the in-flight state of one Execute call between steps.
type sagaRun struct {
	session     *models.CheckoutSession
	cart        *models.CartRecord
	reservation *models.CreditReservation
	stock       *inventory.ReserveResult
	order       *models.OrderRecord
	capture     *payments.CaptureResult

	compensators []compensator
}

// compensator unwinds one completed step. Order of registration is the
// order of completion; rollback walks the slice backwards.
type compensator struct {
	step   enums.CheckoutStep
	action string
	fn     func(ctx context.Context) error
}

type sagaStep struct {
	name  enums.CheckoutStep
	after enums.CheckoutStatus
	run   func(ctx context.Context, st *sagaRun) error
}

func (s *service) Execute(ctx context.Context, input ExecuteInput) (*models.CheckoutSession, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.CartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}

	session := &models.CheckoutSession{
		ID:          uuid.New(),
		CustomerID:  input.CustomerID,
		CartID:      input.CartID,
		Status:      enums.CheckoutStatusInitiated,
		CurrentStep: enums.CheckoutStepValidateCart,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create checkout session")
	}
	s.metrics.IncStarted()
	ctx = s.logg.WithCheckoutID(ctx, session.ID.String())
	ctx = s.logg.WithCustomerID(ctx, input.CustomerID.String())
	s.logg.Info(ctx, "checkout started")

	st := &sagaRun{session: session}
	for _, step := range s.steps() {
		session.CurrentStep = step.name
		if err := s.repo.Update(ctx, session); err != nil {
			return session, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist checkout progress")
		}

		start := time.Now()
		err := step.run(ctx, st)
		s.metrics.ObserveStep(string(step.name), time.Since(start))
		if err != nil {
			return session, s.fail(ctx, st, step.name, err)
		}

		if step.after != "" {
			session.Status = step.after
		}
		if err := s.repo.Update(ctx, session); err != nil {
			return session, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist checkout progress")
		}
	}

	now := time.Now()
	session.Status = enums.CheckoutStatusCompleted
	session.CompletedAt = &now
	if err := s.repo.Update(ctx, session); err != nil {
		return session, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist checkout completion")
	}
	s.metrics.IncCompleted()
	s.logg.Info(ctx, "checkout completed")
	return session, nil
}

func (s *service) Get(ctx context.Context, checkoutID uuid.UUID) (*models.CheckoutSession, error) {
	session, err := s.repo.FindByID(ctx, checkoutID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load checkout session")
	}
	return session, nil
}

// Cancel treats an in-flight session as if its current step had failed:
// rollback releases whatever the recorded progress says is held. It exists
// for explicit user aborts and for the sweeper reaping sessions orphaned by
// a crash.
func (s *service) Cancel(ctx context.Context, checkoutID uuid.UUID, reason string) (*models.CheckoutSession, error) {
	session, err := s.Get(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case enums.CheckoutStatusCompleted, enums.CheckoutStatusFailed,
		enums.CheckoutStatusCancelled, enums.CheckoutStatusRolledBack:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("checkout in status %s cannot be cancelled", session.Status))
	}
	if reason == "" {
		reason = "cancelled"
	}

	ctx = s.logg.WithCheckoutID(ctx, session.ID.String())
	st := &sagaRun{session: session}
	s.registerRecoveredCompensators(st)

	cancelErr := pkgerrors.New(pkgerrors.CodeStateConflict, reason)
	_ = s.fail(ctx, st, session.CurrentStep, cancelErr)

	session.Status = enums.CheckoutStatusCancelled
	if err := s.repo.Update(ctx, session); err != nil {
		return session, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist checkout cancellation")
	}
	s.logg.Info(ctx, "checkout cancelled")
	return session, nil
}

func (s *service) steps() []sagaStep {
	return []sagaStep{
		{name: enums.CheckoutStepValidateCart, run: s.validateCart},
		{name: enums.CheckoutStepReserveCredit, after: enums.CheckoutStatusCreditReserved, run: s.reserveCredit},
		{name: enums.CheckoutStepReserveStock, after: enums.CheckoutStatusStockReserved, run: s.reserveStock},
		{name: enums.CheckoutStepCreateOrder, after: enums.CheckoutStatusOrderCreated, run: s.createOrder},
		{name: enums.CheckoutStepCapturePayment, after: enums.CheckoutStatusPaymentCaptured, run: s.capturePayment},
		{name: enums.CheckoutStepFinalize, run: s.finalize},
	}
}

func (s *service) validateCart(ctx context.Context, st *sagaRun) error {
	return s.runStep(ctx, enums.CheckoutStepValidateCart, func(h *txn.Handle) error {
		record, err := s.carts.ValidateForCheckout(ctx, h.DB(), st.session.CartID, st.session.CustomerID)
		if err != nil {
			return err
		}
		if err := s.carts.Transition(ctx, h.DB(), record.ID, enums.CartStatusProcessing); err != nil {
			return err
		}
		st.cart = record
		return s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
			EventType:     enums.EventCheckoutStarted,
			AggregateType: enums.AggregateCheckout,
			AggregateID:   st.session.ID,
			Data: payloads.CheckoutStartedEvent{
				CheckoutID: st.session.ID.String(),
				CustomerID: st.session.CustomerID.String(),
				CartID:     record.ID.String(),
				TotalCents: record.TotalCents,
			},
		})
	})
}

func (s *service) reserveCredit(ctx context.Context, st *sagaRun) error {
	err := s.runStep(ctx, enums.CheckoutStepReserveCredit, func(h *txn.Handle) error {
		reservation, err := s.credit.Reserve(ctx, h.DB(), credit.ReserveInput{
			CustomerID:  st.session.CustomerID,
			AmountCents: st.cart.TotalCents,
			CreatedBy:   "checkout",
		})
		if err != nil {
			return err
		}
		st.reservation = reservation
		st.session.CreditReservationID = &reservation.ID
		return s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
			EventType:     enums.EventCreditReserved,
			AggregateType: enums.AggregateCreditReservation,
			AggregateID:   reservation.ID,
			Data: payloads.CreditReservedEvent{
				ReservationID: reservation.ID.String(),
				CustomerID:    reservation.CustomerID.String(),
				CheckoutID:    st.session.ID.String(),
				AmountCents:   reservation.AmountCents,
				ExpiresAt:     reservation.ExpiresAt.UTC().Format(time.RFC3339),
			},
		})
	})
	if err != nil {
		return err
	}
	st.compensators = append(st.compensators, compensator{
		step:   enums.CheckoutStepReserveCredit,
		action: "release_credit",
		fn:     s.compensateCredit(st),
	})
	return nil
}

func (s *service) reserveStock(ctx context.Context, st *sagaRun) error {
	err := s.runStep(ctx, enums.CheckoutStepReserveStock, func(h *txn.Handle) error {
		requests := make([]inventory.ReservationRequest, 0, len(st.cart.Items))
		for _, item := range st.cart.Items {
			requests = append(requests, inventory.ReservationRequest{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		result, err := s.inventory.Reserve(ctx, h.DB(), st.session.ID, requests)
		if err != nil {
			return err
		}
		if len(result.Shortfalls) > 0 {
			// Partial fulfillment is not acceptable at checkout. Failing
			// here rolls back the step transaction, so nothing was held.
			first := result.Shortfalls[0]
			return pkgerrors.NewStockShortfall(pkgerrors.StockShortfallDetails{
				ProductID: first.ProductID,
				Requested: first.Plan.Requested,
				Allocated: first.Plan.Requested - first.Plan.Shortfall,
				Shortfall: first.Plan.Shortfall,
			})
		}
		st.stock = result
		return nil
	})
	if err != nil {
		return err
	}
	st.compensators = append(st.compensators, compensator{
		step:   enums.CheckoutStepReserveStock,
		action: "release_stock",
		fn:     s.compensateStock(st),
	})
	return nil
}

func (s *service) createOrder(ctx context.Context, st *sagaRun) error {
	err := s.runStep(ctx, enums.CheckoutStepCreateOrder, func(h *txn.Handle) error {
		order, err := s.orders.Create(ctx, h.DB(), orders.CreateOrderInput{
			CustomerID:    st.session.CustomerID,
			CartID:        &st.cart.ID,
			SubtotalCents: st.cart.SubtotalCents,
			DiscountCents: st.cart.DiscountCents,
			TaxCents:      st.cart.TaxCents,
			ShippingCents: st.cart.ShippingCents,
			TotalCents:    st.cart.TotalCents,
			Lines:         orderLines(st),
		})
		if err != nil {
			return err
		}
		st.order = order
		st.session.OrderID = &order.ID
		return s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data:          orderCreatedPayload(st.session.ID, order),
		})
	})
	if err != nil {
		return err
	}
	st.compensators = append(st.compensators, compensator{
		step:   enums.CheckoutStepCreateOrder,
		action: "cancel_order",
		fn:     s.compensateOrder(st),
	})
	return nil
}

func (s *service) capturePayment(ctx context.Context, st *sagaRun) error {
	// The gateway is external; no database transaction wraps this call.
	capture, err := s.gateway.Capture(ctx, st.order.ID, st.cart.TotalCents)
	if err != nil {
		return err
	}
	st.capture = capture
	st.compensators = append(st.compensators, compensator{
		step:   enums.CheckoutStepCapturePayment,
		action: "void_payment",
		fn: func(ctx context.Context) error {
			return s.gateway.Void(ctx, capture.CaptureID)
		},
	})
	return nil
}

// finalize is the point of no return: credit and stock holds become
// permanent, the cart converts, and the order confirms in one transaction.
func (s *service) finalize(ctx context.Context, st *sagaRun) error {
	return s.runStep(ctx, enums.CheckoutStepFinalize, func(h *txn.Handle) error {
		captured, err := s.credit.Capture(ctx, h.DB(), st.reservation.ID, st.order.ID)
		if err != nil {
			return err
		}
		if _, err := s.inventory.CommitByCheckout(ctx, h.DB(), st.session.ID, st.order.ID); err != nil {
			return err
		}
		if err := s.carts.ConvertToOrder(ctx, h.DB(), st.cart.ID, st.order.ID); err != nil {
			return err
		}
		if err := s.orders.Transition(ctx, h.DB(), st.order.ID, enums.OrderStatusConfirmed); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
			EventType:     enums.EventCreditCaptured,
			AggregateType: enums.AggregateCreditReservation,
			AggregateID:   captured.ID,
			Data: payloads.CreditCapturedEvent{
				ReservationID: captured.ID.String(),
				CustomerID:    captured.CustomerID.String(),
				OrderID:       st.order.ID.String(),
				AmountCents:   captured.AmountCents,
			},
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
			EventType:     enums.EventCheckoutCompleted,
			AggregateType: enums.AggregateCheckout,
			AggregateID:   st.session.ID,
			Data: payloads.CheckoutCompletedEvent{
				CheckoutID:  st.session.ID.String(),
				CustomerID:  st.session.CustomerID.String(),
				OrderID:     st.order.ID.String(),
				OrderNumber: st.order.OrderNumber,
				TotalCents:  st.order.TotalCents,
			},
		})
	})
}

func (s *service) runStep(ctx context.Context, step enums.CheckoutStep, fn func(h *txn.Handle) error) error {
	_, err := s.tx.Run(ctx, txn.Options{Label: "checkout." + string(step)}, fn)
	return err
}

// fail records the step error, runs compensations newest-first, and returns
// the original failure wrapped with step context. Compensation errors are
// logged and aggregated but never replace the step error.
func (s *service) fail(ctx context.Context, st *sagaRun, step enums.CheckoutStep, cause error) error {
	session := st.session
	code := pkgerrors.CodeInternal
	message := cause.Error()
	if appErr := pkgerrors.As(cause); appErr != nil {
		code = appErr.Code()
		message = appErr.Message()
	}
	session.Errors = appendStepError(session.Errors, StepError{
		Step:    string(step),
		Code:    string(code),
		Message: message,
		At:      time.Now(),
	})
	s.logg.Error(ctx, "checkout step failed", cause)

	if len(st.compensators) == 0 {
		session.Status = enums.CheckoutStatusFailed
		if err := s.repo.Update(ctx, session); err != nil {
			s.logg.Error(ctx, "persist checkout failure", err)
		}
		s.metrics.IncFailed()
		s.emitFailed(ctx, st, step, code, message)
		return stepFailed(step, code, message, cause)
	}

	session.Status = enums.CheckoutStatusRollingBack
	if err := s.repo.Update(ctx, session); err != nil {
		s.logg.Error(ctx, "persist checkout rollback start", err)
	}

	var compErrs error
	records := make([]CompensationRecord, 0, len(st.compensators))
	for i := len(st.compensators) - 1; i >= 0; i-- {
		comp := st.compensators[i]
		record := CompensationRecord{
			Step:     string(comp.step),
			Action:   comp.action,
			Executed: true,
			At:       time.Now(),
		}
		if err := comp.fn(ctx); err != nil {
			record.Executed = false
			record.Error = err.Error()
			compErrs = multierr.Append(compErrs, err)
			s.metrics.IncCompensationFailure()
			s.logg.Error(ctx, "checkout compensation failed", err)
		}
		records = append(records, record)
	}
	if compErrs != nil {
		s.logg.Error(ctx, "checkout rollback finished with failures", compErrs)
	}
	s.releaseCart(ctx, st)

	session.Compensations = encodeCompensations(records)
	session.Status = enums.CheckoutStatusRolledBack
	if err := s.repo.Update(ctx, session); err != nil {
		s.logg.Error(ctx, "persist checkout rollback", err)
	}
	s.metrics.IncRolledBack()
	s.emitFailed(ctx, st, step, code, message)
	return stepFailed(step, code, message, cause)
}

// releaseCart puts the cart back to ACTIVE so the customer can retry. It is
// failure bookkeeping rather than a compensation: the cart holds nothing.
func (s *service) releaseCart(ctx context.Context, st *sagaRun) {
	if st.cart == nil {
		return
	}
	_, err := s.tx.Run(ctx, txn.Options{Label: "checkout.release_cart"}, func(h *txn.Handle) error {
		return s.carts.Transition(ctx, h.DB(), st.cart.ID, enums.CartStatusActive)
	})
	if err != nil {
		s.logg.Error(ctx, "return cart to active", err)
	}
}

func (s *service) compensateCredit(st *sagaRun) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.tx.Run(ctx, txn.Options{Label: "checkout.compensate_credit"}, func(h *txn.Handle) error {
			released, err := s.credit.Release(ctx, h.DB(), st.reservation.ID, "checkout_failed")
			if err != nil {
				return err
			}
			return s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
				EventType:     enums.EventCreditReleased,
				AggregateType: enums.AggregateCreditReservation,
				AggregateID:   released.ID,
				Data: payloads.CreditReleasedEvent{
					ReservationID: released.ID.String(),
					CustomerID:    released.CustomerID.String(),
					AmountCents:   released.AmountCents,
					Reason:        "checkout_failed",
				},
			})
		})
		return err
	}
}

func (s *service) compensateStock(st *sagaRun) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.tx.Run(ctx, txn.Options{Label: "checkout.compensate_stock"}, func(h *txn.Handle) error {
			if _, err := s.inventory.ReleaseByCheckout(ctx, h.DB(), st.session.ID, "checkout_failed"); err != nil {
				return err
			}
			if st.stock == nil {
				return nil
			}
			for _, item := range st.stock.Items {
				for _, alloc := range item.Plan.Allocations {
					err := s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
						EventType:     enums.EventStockReleased,
						AggregateType: enums.AggregateStockReservation,
						AggregateID:   st.session.ID,
						Data: payloads.StockReleasedEvent{
							CheckoutID:  st.session.ID.String(),
							ProductID:   item.ProductID.String(),
							WarehouseID: alloc.WarehouseID.String(),
							Quantity:    alloc.Quantity,
							Reason:      "checkout_failed",
						},
					})
					if err != nil {
						return err
					}
				}
			}
			return nil
		})
		return err
	}
}

func (s *service) compensateOrder(st *sagaRun) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.tx.Run(ctx, txn.Options{Label: "checkout.compensate_order"}, func(h *txn.Handle) error {
			return s.orders.Transition(ctx, h.DB(), st.order.ID, enums.OrderStatusCancelled)
		})
		return err
	}
}

// registerRecoveredCompensators rebuilds the compensation list from the
// persisted session, for sessions being cancelled without an in-memory run.
func (s *service) registerRecoveredCompensators(st *sagaRun) {
	session := st.session
	if session.CreditReservationID != nil {
		id := *session.CreditReservationID
		st.reservation = &models.CreditReservation{ID: id, CustomerID: session.CustomerID}
		st.compensators = append(st.compensators, compensator{
			step:   enums.CheckoutStepReserveCredit,
			action: "release_credit",
			fn:     s.compensateCredit(st),
		})
	}
	switch session.Status {
	case enums.CheckoutStatusStockReserved, enums.CheckoutStatusOrderCreated, enums.CheckoutStatusPaymentCaptured:
		st.compensators = append(st.compensators, compensator{
			step:   enums.CheckoutStepReserveStock,
			action: "release_stock",
			fn:     s.compensateStock(st),
		})
	}
	if session.OrderID != nil {
		st.order = &models.OrderRecord{ID: *session.OrderID}
		st.compensators = append(st.compensators, compensator{
			step:   enums.CheckoutStepCreateOrder,
			action: "cancel_order",
			fn:     s.compensateOrder(st),
		})
	}
	st.cart = &models.CartRecord{ID: session.CartID}
}

func (s *service) emitFailed(ctx context.Context, st *sagaRun, step enums.CheckoutStep, code pkgerrors.Code, message string) {
	compensations := make([]string, 0, len(st.compensators))
	for i := len(st.compensators) - 1; i >= 0; i-- {
		compensations = append(compensations, st.compensators[i].action)
	}
	_, err := s.tx.Run(ctx, txn.Options{Label: "checkout.emit_failed"}, func(h *txn.Handle) error {
		return s.outbox.Emit(ctx, h.DB(), outbox.DomainEvent{
			EventType:     enums.EventCheckoutFailed,
			AggregateType: enums.AggregateCheckout,
			AggregateID:   st.session.ID,
			Data: payloads.CheckoutFailedEvent{
				CheckoutID:    st.session.ID.String(),
				CustomerID:    st.session.CustomerID.String(),
				FailedStep:    string(step),
				ErrorCode:     string(code),
				ErrorMessage:  message,
				Compensations: compensations,
			},
		})
	})
	if err != nil {
		s.logg.Error(ctx, "emit checkout.failed event", err)
	}
}

func stepFailed(step enums.CheckoutStep, code pkgerrors.Code, message string, cause error) error {
	wrapped := pkgerrors.Wrap(pkgerrors.CodeStepFailed,
		cause, fmt.Sprintf("checkout step %s failed", step))
	return wrapped.WithDetails(pkgerrors.StepFailureDetails{
		Step:    string(step),
		Code:    code,
		Message: message,
	})
}

func orderLines(st *sagaRun) []orders.LineInput {
	prices := make(map[uuid.UUID]int64, len(st.cart.Items))
	for _, item := range st.cart.Items {
		prices[item.ProductID] = item.UnitPriceCents
	}
	var lines []orders.LineInput
	for _, item := range st.stock.Items {
		for _, alloc := range item.Plan.Allocations {
			warehouseID := alloc.WarehouseID
			lines = append(lines, orders.LineInput{
				ProductID:      item.ProductID,
				WarehouseID:    &warehouseID,
				Quantity:       alloc.Quantity,
				UnitPriceCents: prices[item.ProductID],
			})
		}
	}
	return lines
}

func orderCreatedPayload(checkoutID uuid.UUID, order *models.OrderRecord) payloads.OrderCreatedEvent {
	lines := make([]payloads.OrderCreatedLine, 0, len(order.Items))
	for _, item := range order.Items {
		warehouseID := ""
		if item.WarehouseID != nil {
			warehouseID = item.WarehouseID.String()
		}
		lines = append(lines, payloads.OrderCreatedLine{
			ProductID:      item.ProductID.String(),
			WarehouseID:    warehouseID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return payloads.OrderCreatedEvent{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID.String(),
		CheckoutID:  checkoutID.String(),
		TotalCents:  order.TotalCents,
		Lines:       lines,
	}
}
