package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	"github.com/leduxro-prog/erp-dashboard-sub012/api/validators"
	checkoutsvc "github.com/leduxro-prog/erp-dashboard-sub012/internal/checkout"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// CheckoutBegin runs the checkout saga for a customer's cart. The saga is
// synchronous; the response carries the terminal session either way, and a
// step failure surfaces as an error with the session still queryable.
func CheckoutBegin(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Execute(r.Context(), checkoutsvc.ExecuteInput{
			CustomerID: payload.CustomerID,
			CartID:     payload.CartID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(session))
	}
}

// CheckoutStatus returns the persisted saga state for polling clients.
func CheckoutStatus(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checkoutID, err := validators.UUIDParam(r, "checkoutId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Get(r.Context(), checkoutID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutResponse(session))
	}
}

// CheckoutCancel aborts an in-flight session and releases its holds.
func CheckoutCancel(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checkoutID, err := validators.UUIDParam(r, "checkoutId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Cancel(r.Context(), checkoutID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutResponse(session))
	}
}

type checkoutRequest struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	CartID     uuid.UUID `json:"cart_id" validate:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=200"`
}

type checkoutResponse struct {
	CheckoutID          uuid.UUID                        `json:"checkout_id"`
	CustomerID          uuid.UUID                        `json:"customer_id"`
	CartID              uuid.UUID                        `json:"cart_id"`
	Status              string                           `json:"status"`
	CurrentStep         string                           `json:"current_step"`
	OrderID             *uuid.UUID                       `json:"order_id,omitempty"`
	CreditReservationID *uuid.UUID                       `json:"credit_reservation_id,omitempty"`
	Errors              []checkoutsvc.StepError          `json:"errors,omitempty"`
	Compensations       []checkoutsvc.CompensationRecord `json:"compensations,omitempty"`
	StartedAt           time.Time                        `json:"started_at"`
	CompletedAt         *time.Time                       `json:"completed_at,omitempty"`
}

func newCheckoutResponse(session *models.CheckoutSession) checkoutResponse {
	return checkoutResponse{
		CheckoutID:          session.ID,
		CustomerID:          session.CustomerID,
		CartID:              session.CartID,
		Status:              string(session.Status),
		CurrentStep:         string(session.CurrentStep),
		OrderID:             session.OrderID,
		CreditReservationID: session.CreditReservationID,
		Errors:              checkoutsvc.DecodeStepErrors(session.Errors),
		Compensations:       checkoutsvc.DecodeCompensations(session.Compensations),
		StartedAt:           session.StartedAt,
		CompletedAt:         session.CompletedAt,
	}
}
