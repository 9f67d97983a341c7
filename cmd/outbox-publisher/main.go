package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/migrate"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/outbox"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/pubsub"
)

const serviceName = "outbox-publisher"

func main() {
	bootLogg := logger.New(logger.Options{ServiceName: serviceName})
	if err := godotenv.Load(); err != nil {
		bootLogg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLogg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = serviceName

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(context.Background(), "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "outbox publisher shutting down gracefully")
}

func run(cfg *config.Config, logg *logger.Logger) error {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(bootCtx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	pubsubClient, err := pubsub.NewClient(bootCtx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return fmt.Errorf("bootstrap pubsub: %w", err)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(bootCtx, "error closing pubsub client", err)
		}
	}()

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		PubSub:     pubsubClient,
		Repository: outbox.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return fmt.Errorf("create outbox publisher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": serviceName,
	})
	logg.Info(ctx, "starting outbox publisher")

	return service.Run(ctx)
}
