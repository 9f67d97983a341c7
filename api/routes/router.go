package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/controllers"
	"github.com/leduxro-prog/erp-dashboard-sub012/api/middleware"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/cart"
	checkoutsvc "github.com/leduxro-prog/erp-dashboard-sub012/internal/checkout"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/credit"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/inventory"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/orders"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	checkoutService checkoutsvc.Service,
	cartService cart.Service,
	creditService credit.Service,
	creditRepo credit.Repository,
	inventoryService inventory.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	apiPolicy := middleware.RateLimitPolicy{
		Scope:  "api",
		Limit:  cfg.RateLimit.APILimit,
		Window: cfg.RateLimit.Window,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.NewPingers(dbP, redisClient)))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(redisClient, apiPolicy, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutBegin(checkoutService, logg))
			r.Get("/{checkoutId}", controllers.CheckoutStatus(checkoutService, logg))
			r.Post("/{checkoutId}/cancel", controllers.CheckoutCancel(checkoutService, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CartCreate(cartService, logg))
			r.Get("/{cartId}", controllers.CartFetch(cartService, logg))
		})

		r.Route("/customers/{customerId}/credit", func(r chi.Router) {
			r.Get("/", controllers.CreditSummary(creditService, logg))
			r.Get("/transactions", controllers.CreditTransactions(creditRepo, logg))
		})

		r.Get("/orders/{orderId}", controllers.OrderDetail(ordersService, logg))
		r.Get("/stock/{productId}", controllers.StockAvailability(inventoryService, logg))
	})

	return r
}
