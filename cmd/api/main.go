package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/routes"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/cart"
	checkoutsvc "github.com/leduxro-prog/erp-dashboard-sub012/internal/checkout"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/credit"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/inventory"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/orders"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/payments"
	"github.com/leduxro-prog/erp-dashboard-sub012/internal/pricing"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/metrics"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/migrate"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/outbox"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/redis"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/txn"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	runner, err := txn.NewRunner(dbClient.DB(), cfg.Txn, logg, metrics.NewTxnMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to create transaction runner", err)
		os.Exit(1)
	}

	taxRate, err := decimal.NewFromString(cfg.Pricing.TaxRatePercent)
	if err != nil {
		logg.Error(context.Background(), "invalid tax rate", err)
		os.Exit(1)
	}
	pricingService, err := pricing.NewService(pricing.DefaultTiers(), taxRate)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), pricingService, cfg.Checkout.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	creditService, err := credit.NewService(credit.NewRepository(dbClient.DB()), logg, cfg.Credit.ReservationTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create credit service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(
		inventory.NewRepository(dbClient.DB()),
		redisClient,
		redis.IsCacheMiss,
		logg,
		cfg.Inventory.ReservationTTL,
		cfg.Inventory.StockCacheTTL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	emitter := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	checkoutService, err := checkoutsvc.NewService(
		checkoutsvc.NewRepository(dbClient.DB()),
		runner,
		cartService,
		creditService,
		inventoryService,
		ordersService,
		payments.NewDeferredGateway(logg),
		emitter,
		logg,
		metrics.NewCheckoutMetrics(registry),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			checkoutService,
			cartService,
			creditService,
			credit.NewRepository(dbClient.DB()),
			inventoryService,
			ordersService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
