package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	"github.com/leduxro-prog/erp-dashboard-sub012/api/validators"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/cart"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// CartCreate builds a priced cart for a customer or an anonymous session.
func CartCreate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]cart.ItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, cart.ItemInput{
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
			})
		}

		record, err := svc.CreateCart(r.Context(), cart.CreateCartInput{
			CustomerID: payload.CustomerID,
			SessionID:  payload.SessionID,
			Items:      items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(record))
	}
}

// CartFetch returns one cart with its lines.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.UUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

type cartCreateRequest struct {
	CustomerID *uuid.UUID        `json:"customer_id,omitempty"`
	SessionID  *string           `json:"session_id,omitempty" validate:"omitempty,min=1,max=128"`
	Items      []cartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type cartItemRequest struct {
	ProductID      uuid.UUID `json:"product_id" validate:"required"`
	Quantity       int       `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64     `json:"unit_price_cents" validate:"required,gt=0"`
}

type cartResponse struct {
	CartID        uuid.UUID          `json:"cart_id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	SessionID     *string            `json:"session_id,omitempty"`
	Status        string             `json:"status"`
	OrderID       *uuid.UUID         `json:"order_id,omitempty"`
	SubtotalCents int64              `json:"subtotal_cents"`
	DiscountCents int64              `json:"discount_cents"`
	TaxCents      int64              `json:"tax_cents"`
	ShippingCents int64              `json:"shipping_cents"`
	TotalCents    int64              `json:"total_cents"`
	ExpiresAt     time.Time          `json:"expires_at"`
	Items         []cartItemResponse `json:"items"`
}

type cartItemResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Position       int       `json:"position"`
}

func newCartResponse(record *models.CartRecord) cartResponse {
	items := make([]cartItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, cartItemResponse{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			Position:       item.Position,
		})
	}
	return cartResponse{
		CartID:        record.ID,
		CustomerID:    record.CustomerID,
		SessionID:     record.SessionID,
		Status:        string(record.Status),
		OrderID:       record.OrderID,
		SubtotalCents: record.SubtotalCents,
		DiscountCents: record.DiscountCents,
		TaxCents:      record.TaxCents,
		ShippingCents: record.ShippingCents,
		TotalCents:    record.TotalCents,
		ExpiresAt:     record.ExpiresAt,
		Items:         items,
	}
}
