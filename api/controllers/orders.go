package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	"github.com/leduxro-prog/erp-dashboard-sub012/api/validators"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/orders"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db/models"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// OrderDetail returns one order with its line items.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type orderResponse struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   int64               `json:"order_number"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	CartID        *uuid.UUID          `json:"cart_id,omitempty"`
	Status        string              `json:"status"`
	SubtotalCents int64               `json:"subtotal_cents"`
	DiscountCents int64               `json:"discount_cents"`
	TaxCents      int64               `json:"tax_cents"`
	ShippingCents int64               `json:"shipping_cents"`
	TotalCents    int64               `json:"total_cents"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	ProductID      uuid.UUID  `json:"product_id"`
	WarehouseID    *uuid.UUID `json:"warehouse_id,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	TotalCents     int64      `json:"total_cents"`
}

func newOrderResponse(order *models.OrderRecord) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:      item.ProductID,
			WarehouseID:    item.WarehouseID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	return orderResponse{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		CartID:        order.CartID,
		Status:        string(order.Status),
		SubtotalCents: order.SubtotalCents,
		DiscountCents: order.DiscountCents,
		TaxCents:      order.TaxCents,
		ShippingCents: order.ShippingCents,
		TotalCents:    order.TotalCents,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}
