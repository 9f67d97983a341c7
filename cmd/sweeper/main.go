package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

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
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/migrate"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/outbox"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/redis"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/txn"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sweeper"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sweeper"

	logg = logger.New(logger.Options{
		ServiceName: "sweeper",
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

	runner, err := txn.NewRunner(dbClient.DB(), cfg.Txn, logg, nil)
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

	checkoutRepo := checkoutsvc.NewRepository(dbClient.DB())
	checkoutService, err := checkoutsvc.NewService(
		checkoutRepo,
		runner,
		cartService,
		creditService,
		inventoryService,
		ordersService,
		payments.NewDeferredGateway(logg),
		outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		logg,
		nil,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	service, err := NewService(ServiceParams{
		Config:   cfg,
		Logger:   logg,
		Runner:   runner,
		Credit:   creditService,
		Stock:    inventoryService,
		Carts:    cartService,
		Sessions: checkoutRepo,
		Checkout: checkoutService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "sweeper",
	})
	logg.Info(ctx, "starting sweeper")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sweeper stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sweeper shutting down gracefully")
}
