package migrate

import (
	"context"
	"fmt"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// autoRunEnabled gates dev auto-migration: both the dev environment and the
// feature flag must opt in. Staging and production always migrate explicitly
// through the migrate binary.
func autoRunEnabled(cfg *config.Config) bool {
	return cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}

// MaybeRunDev brings the schema up to date on startup when dev auto-migration
// is enabled, and is a no-op otherwise.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !autoRunEnabled(cfg) {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "auto-applying pending migrations")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "schema up to date")
	return nil
}
