package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// Recoverer converts handler panics into opaque 500 responses instead of
// dropping the connection mid-write.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer handlePanic(logg, w, r)
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func handlePanic(logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}

	err := fmt.Errorf("panic: %v", rec)
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"panic": rec,
			"stack": string(debug.Stack()),
		})
		logg.Error(ctx, "panic.recovered", err)
	}
	responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
}
