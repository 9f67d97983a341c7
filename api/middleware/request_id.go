package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// resolveRequestID trusts a caller-supplied id only when it is a well-formed
// UUID; anything else gets replaced so log correlation keys stay uniform.
func resolveRequestID(r *http.Request) string {
	if supplied := r.Header.Get(requestIDHeader); supplied != "" {
		if _, err := uuid.Parse(supplied); err == nil {
			return supplied
		}
	}
	return uuid.NewString()
}

// RequestID assigns each request a correlation id, echoes it on the response,
// and binds it to the context logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := resolveRequestID(r)
			w.Header().Set(requestIDHeader, requestID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, requestID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
