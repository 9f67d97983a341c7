package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/enums"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// Service manages holds against customer credit lines. All balance-affecting
// operations run inside the caller's transaction and take the customer row
// lock before reading or writing usage, so concurrent reservations serialize
// and overdraft is impossible.
type Service interface {
	Reserve(ctx context.Context, tx *gorm.DB, input ReserveInput) (*models.CreditReservation, error)
	Capture(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, orderID uuid.UUID) (*models.CreditReservation, error)
	Release(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, reason string) (*models.CreditReservation, error)
	ExpireDue(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error)
	AvailableCredit(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error)
}

// ReserveInput captures one credit hold request.
type ReserveInput struct {
	CustomerID  uuid.UUID
	OrderID     *uuid.UUID
	AmountCents int64
	TTL         time.Duration
	CreatedBy   string
}

type service struct {
	repo Repository
	logg *logger.Logger
	ttl  time.Duration
}

const defaultReservationTTL = 72 * time.Hour

// NewService wires a credit service with the provided repository.
func NewService(repo Repository, logg *logger.Logger, defaultTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("credit repository required")
	}
	if defaultTTL <= 0 {
		defaultTTL = defaultReservationTTL
	}
	return &service{repo: repo, logg: logg, ttl: defaultTTL}, nil
}

func (s *service) Reserve(ctx context.Context, tx *gorm.DB, input ReserveInput) (*models.CreditReservation, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation amount must be positive")
	}

	repo := s.repo.WithTx(tx)

	account, err := repo.FindAccountForUpdate(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if account.Status != enums.CustomerStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeCustomerSuspended,
			fmt.Sprintf("customer account is %s", account.Status))
	}

	available := account.AvailableCreditCents()
	if available < input.AmountCents {
		return nil, pkgerrors.NewInsufficientCredit(pkgerrors.CreditShortfallDetails{
			CustomerID:     input.CustomerID,
			LimitCents:     account.CreditLimitCents,
			UsedCents:      account.CreditUsedCents,
			AvailableCents: available,
			ShortfallCents: input.AmountCents - available,
		})
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.ttl
	}

	balanceBefore := available
	balanceAfter := available - input.AmountCents

	reservation := &models.CreditReservation{
		CustomerID:         input.CustomerID,
		OrderID:            input.OrderID,
		AmountCents:        input.AmountCents,
		BalanceBeforeCents: balanceBefore,
		BalanceAfterCents:  balanceAfter,
		Status:             enums.CreditReservationStatusActive,
		ExpiresAt:          time.Now().Add(ttl),
	}
	if err := repo.CreateReservation(ctx, reservation); err != nil {
		return nil, err
	}

	if err := repo.UpdateAccountUsage(ctx, account.ID, account.CreditUsedCents+input.AmountCents); err != nil {
		return nil, err
	}

	entry := &models.CreditTransaction{
		CustomerID:         input.CustomerID,
		ReservationID:      &reservation.ID,
		OrderID:            input.OrderID,
		Type:               enums.CreditTransactionTypeUse,
		AmountCents:        input.AmountCents,
		BalanceBeforeCents: balanceBefore,
		BalanceAfterCents:  balanceAfter,
		CreatedBy:          createdBy(input.CreatedBy),
	}
	if err := repo.CreateTransaction(ctx, entry); err != nil {
		return nil, err
	}

	s.logReservation(ctx, reservation, "credit reserved")
	return reservation, nil
}

func (s *service) Capture(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, orderID uuid.UUID) (*models.CreditReservation, error) {
	if reservationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	repo := s.repo.WithTx(tx)

	reservation, err := repo.FindReservationForUpdate(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status == enums.CreditReservationStatusCaptured {
		return reservation, nil
	}
	if reservation.Status != enums.CreditReservationStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot capture reservation in status %s", reservation.Status))
	}

	now := time.Now()
	reservation.Status = enums.CreditReservationStatusCaptured
	reservation.CapturedAt = &now
	if orderID != uuid.Nil {
		reservation.OrderID = &orderID
	}
	if err := repo.UpdateReservation(ctx, reservation); err != nil {
		return nil, err
	}

	// Funds were deducted at reserve time; capture only finalizes the hold.
	s.logReservation(ctx, reservation, "credit captured")
	return reservation, nil
}

func (s *service) Release(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, reason string) (*models.CreditReservation, error) {
	if reservationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	repo := s.repo.WithTx(tx)

	reservation, err := repo.FindReservationForUpdate(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	// Idempotent: a terminal reservation is never double-credited.
	if reservation.Status != enums.CreditReservationStatusActive {
		return reservation, nil
	}

	return s.releaseLocked(ctx, repo, reservation, enums.CreditReservationStatusReleased, reason)
}

func (s *service) ExpireDue(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) (int, error) {
	repo := s.repo.WithTx(tx)

	due, err := repo.ListExpiredActive(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range due {
		// Re-read under lock: a concurrent capture or release wins.
		reservation, err := repo.FindReservationForUpdate(ctx, candidate.ID)
		if err != nil {
			return expired, err
		}
		if reservation.Status != enums.CreditReservationStatusActive {
			continue
		}
		if _, err := s.releaseLocked(ctx, repo, reservation, enums.CreditReservationStatusExpired, "reservation expired"); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (s *service) AvailableCredit(ctx context.Context, customerID uuid.UUID) (*models.CustomerAccount, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.repo.FindAccount(ctx, customerID)
}

func (s *service) releaseLocked(ctx context.Context, repo Repository, reservation *models.CreditReservation, status enums.CreditReservationStatus, reason string) (*models.CreditReservation, error) {
	account, err := repo.FindAccountForUpdate(ctx, reservation.CustomerID)
	if err != nil {
		return nil, err
	}

	restored := account.CreditUsedCents - reservation.AmountCents
	if restored < 0 {
		restored = 0
	}
	if err := repo.UpdateAccountUsage(ctx, account.ID, restored); err != nil {
		return nil, err
	}

	now := time.Now()
	reservation.Status = status
	reservation.ReleasedAt = &now
	if err := repo.UpdateReservation(ctx, reservation); err != nil {
		return nil, err
	}

	balanceBefore := account.CreditLimitCents - account.CreditUsedCents
	entry := &models.CreditTransaction{
		CustomerID:         reservation.CustomerID,
		ReservationID:      &reservation.ID,
		OrderID:            reservation.OrderID,
		Type:               enums.CreditTransactionTypeRelease,
		AmountCents:        reservation.AmountCents,
		BalanceBeforeCents: balanceBefore,
		BalanceAfterCents:  account.CreditLimitCents - restored,
		CreatedBy:          createdBy(reason),
	}
	if err := repo.CreateTransaction(ctx, entry); err != nil {
		return nil, err
	}

	s.logReservation(ctx, reservation, "credit released")
	return reservation, nil
}

func (s *service) logReservation(ctx context.Context, reservation *models.CreditReservation, msg string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"reservation_id": reservation.ID.String(),
		"customer_id":    reservation.CustomerID.String(),
		"amount_cents":   reservation.AmountCents,
		"status":         reservation.Status,
	})
	s.logg.Info(ctx, msg)
}

func createdBy(value string) string {
	if value == "" {
		return "system"
	}
	return value
}
