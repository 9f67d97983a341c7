package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	"github.com/leduxro-prog/erp-dashboard-sub012/api/validators"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/credit"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// CreditSummary reports one customer's credit line headroom.
func CreditSummary(svc credit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.UUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.AvailableCredit(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, creditSummaryResponse{
			CustomerID:     account.ID,
			CompanyName:    account.CompanyName,
			Status:         string(account.Status),
			LimitCents:     account.CreditLimitCents,
			UsedCents:      account.CreditUsedCents,
			AvailableCents: account.AvailableCreditCents(),
		})
	}
}

// CreditTransactions lists the immutable ledger entries newest first.
func CreditTransactions(repo credit.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.UUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := repo.ListTransactions(r.Context(), customerID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]creditTransactionResponse, 0, len(entries))
		for _, entry := range entries {
			out = append(out, newCreditTransactionResponse(entry))
		}
		responses.WriteSuccess(w, out)
	}
}

type creditSummaryResponse struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	CompanyName    string    `json:"company_name"`
	Status         string    `json:"status"`
	LimitCents     int64     `json:"limit_cents"`
	UsedCents      int64     `json:"used_cents"`
	AvailableCents int64     `json:"available_cents"`
}

type creditTransactionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Type               string     `json:"type"`
	AmountCents        int64      `json:"amount_cents"`
	BalanceBeforeCents int64      `json:"balance_before_cents"`
	BalanceAfterCents  int64      `json:"balance_after_cents"`
	ReservationID      *uuid.UUID `json:"reservation_id,omitempty"`
	OrderID            *uuid.UUID `json:"order_id,omitempty"`
	CreatedBy          string     `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
}

func newCreditTransactionResponse(entry models.CreditTransaction) creditTransactionResponse {
	return creditTransactionResponse{
		ID:                 entry.ID,
		Type:               string(entry.Type),
		AmountCents:        entry.AmountCents,
		BalanceBeforeCents: entry.BalanceBeforeCents,
		BalanceAfterCents:  entry.BalanceAfterCents,
		ReservationID:      entry.ReservationID,
		OrderID:            entry.OrderID,
		CreatedBy:          entry.CreatedBy,
		CreatedAt:          entry.CreatedAt,
	}
}
