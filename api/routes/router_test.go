package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/internal/cart"
	checkoutsvc "github.com/leduxro-prog/erp-dashboard-sub012/internal/checkout"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/credit"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/inventory"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/orders"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCheckoutService struct {
	executeFn func(ctx context.Context, input checkoutsvc.ExecuteInput) (*models.CheckoutSession, error)
	getFn     func(ctx context.Context, checkoutID uuid.UUID) (*models.CheckoutSession, error)
}

func (s stubCheckoutService) Execute(ctx context.Context, input checkoutsvc.ExecuteInput) (*models.CheckoutSession, error) {
	if s.executeFn != nil {
		return s.executeFn(ctx, input)
	}
	return nil, fmt.Errorf("not implemented")
}

func (s stubCheckoutService) Get(ctx context.Context, checkoutID uuid.UUID) (*models.CheckoutSession, error) {
	if s.getFn != nil {
		return s.getFn(ctx, checkoutID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
}

func (s stubCheckoutService) Cancel(ctx context.Context, checkoutID uuid.UUID, reason string) (*models.CheckoutSession, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
}

type stubCartService struct{}

func (stubCartService) CreateCart(ctx context.Context, input cart.CreateCartInput) (*models.CartRecord, error) {
	panic("unimplemented")
}

func (stubCartService) Get(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
}

func (stubCartService) ValidateForCheckout(ctx context.Context, tx *gorm.DB, cartID, customerID uuid.UUID) (*models.CartRecord, error) {
	panic("unimplemented")
}

func (stubCartService) Transition(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, to enums.CartStatus) error {
	panic("unimplemented")
}

func (stubCartService) ConvertToOrder(ctx context.Context, tx *gorm.DB, cartID, orderID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCartService) AbandonExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error) {
	panic("unimplemented")
}

type stubCreditService struct{}

func (stubCreditService) Reserve(ctx context.Context, tx *gorm.DB, input credit.ReserveInput) (*models.CreditReservation, error) {
	panic("unimplemented")
}

func (stubCreditService) Capture(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, orderID uuid.UUID) (*models.CreditReservation, error) {
	panic("unimplemented")
}

func (stubCreditService) Release(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, reason string) (*models.CreditReservation, error) {
	panic("unimplemented")
}

func (stubCreditService) ExpireDue(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error) {
	panic("unimplemented")
}

func (stubCreditService) AvailableCredit(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer account not found")
}

type stubCreditRepo struct{}

func (s stubCreditRepo) WithTx(tx *gorm.DB) credit.Repository { return s }

func (stubCreditRepo) FindAccountForUpdate(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error) {
	panic("unimplemented")
}

func (stubCreditRepo) FindAccount(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error) {
	panic("unimplemented")
}

func (stubCreditRepo) UpdateAccountUsage(ctx context.Context, customerID uuid.UUID, creditUsedCents int64) error {
	panic("unimplemented")
}

func (stubCreditRepo) CreateReservation(ctx context.Context, reservation *models.CreditReservation) error {
	panic("unimplemented")
}

func (stubCreditRepo) FindReservationForUpdate(ctx context.Context, reservationID uuid.UUID) (*models.CreditReservation, error) {
	panic("unimplemented")
}

func (stubCreditRepo) UpdateReservation(ctx context.Context, reservation *models.CreditReservation) error {
	panic("unimplemented")
}

func (stubCreditRepo) ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.CreditReservation, error) {
	panic("unimplemented")
}

func (stubCreditRepo) CreateTransaction(ctx context.Context, entry *models.CreditTransaction) error {
	panic("unimplemented")
}

func (stubCreditRepo) ListTransactions(ctx context.Context, customerID uuid.UUID, limit int) ([]models.CreditTransaction, error) {
	return nil, nil
}

type stubInventoryService struct{}

func (stubInventoryService) Reserve(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, requests []inventory.ReservationRequest) (*inventory.ReserveResult, error) {
	panic("unimplemented")
}

func (stubInventoryService) ReleaseByCheckout(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, reason string) (int, error) {
	panic("unimplemented")
}

func (stubInventoryService) CommitByCheckout(ctx context.Context, tx *gorm.DB, checkoutID uuid.UUID, orderID uuid.UUID) (int, error) {
	panic("unimplemented")
}

func (stubInventoryService) ExpireDue(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error) {
	panic("unimplemented")
}

func (stubInventoryService) Availability(ctx context.Context, productID uuid.UUID) (*inventory.AvailabilitySnapshot, error) {
	return &inventory.AvailabilitySnapshot{
		ProductID:    productID.String(),
		AvailableQty: 12,
		ReservedQty:  3,
		Warehouses:   2,
	}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, tx *gorm.DB, input orders.CreateOrderInput) (*models.OrderRecord, error) {
	panic("unimplemented")
}

func (stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*models.OrderRecord, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubOrdersService) Transition(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, to enums.OrderStatus) error {
	panic("unimplemented")
}

func newTestRouter(t *testing.T, checkoutService checkoutsvc.Service) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	// limit 0 disables the rate limiter in the middleware
	cfg.RateLimit.APILimit = 0

	logg := logger.New(logger.Options{ServiceName: "router-test"})

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil,
		checkoutService,
		stubCartService{},
		stubCreditService{},
		stubCreditRepo{},
		stubInventoryService{},
		stubOrdersService{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, stubCheckoutService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-ERP-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-ERP-Env"))
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, stubCheckoutService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCheckoutStatusRejectsMalformedID(t *testing.T) {
	router := newTestRouter(t, stubCheckoutService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkout/not-a-uuid", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCheckoutStatusReturnsSession(t *testing.T) {
	sessionID := uuid.New()
	svc := stubCheckoutService{
		getFn: func(ctx context.Context, checkoutID uuid.UUID) (*models.CheckoutSession, error) {
			if checkoutID != sessionID {
				t.Fatalf("unexpected checkout id %s", checkoutID)
			}
			return &models.CheckoutSession{
				ID:          sessionID,
				CustomerID:  uuid.New(),
				CartID:      uuid.New(),
				Status:      enums.CheckoutStatusCompleted,
				CurrentStep: enums.CheckoutStepFinalize,
			}, nil
		},
	}
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkout/"+sessionID.String(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			CheckoutID string `json:"checkout_id"`
			Status     string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CheckoutID != sessionID.String() {
		t.Fatalf("unexpected checkout id %s", envelope.Data.CheckoutID)
	}
	if envelope.Data.Status != string(enums.CheckoutStatusCompleted) {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestCheckoutBeginRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(t, stubCheckoutService{})

	body := strings.NewReader(fmt.Sprintf(`{"customer_id":%q,"cart_id":%q}`, uuid.NewString(), uuid.NewString()))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", rec.Code)
	}
}

func TestStockAvailability(t *testing.T) {
	router := newTestRouter(t, stubCheckoutService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stock/"+uuid.NewString(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data inventory.AvailabilitySnapshot `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AvailableQty != 12 {
		t.Fatalf("unexpected availability %+v", envelope.Data)
	}
}
