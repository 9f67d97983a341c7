package controllers

import (
	"net/http"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	"github.com/leduxro-prog/erp-dashboard-sub012/api/validators"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/inventory"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// StockAvailability returns the cached per-product stock summary.
func StockAvailability(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Availability(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
