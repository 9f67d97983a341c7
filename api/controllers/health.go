package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 2 * time.Second

// HealthLive reports process liveness only.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ERP-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the dependencies a checkout cannot run without. A nil
// pinger means the dependency is not wired in this deployment and is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ERP-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, p := range pingers {
			if p == nil {
				checks[name] = "skipped"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness check failed: "+name, err)
				}
				continue
			}
			checks[name] = "up"
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}

// NewPingers builds the readiness map from whatever dependencies exist.
func NewPingers(db pinger, redis pinger) map[string]pinger {
	return map[string]pinger{
		"database": db,
		"redis":    redis,
	}
}
