package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/config"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/db"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate operate on the filesystem only
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			fail("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail("loading config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": opts.cmd,
		"dir": opts.dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "database unavailable", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "unwrapping sql.DB", err)
		os.Exit(1)
	}

	switch opts.cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, opts.dir, opts.cmd); err != nil {
			fail("goose %s failed: %v", opts.cmd, err)
		}
	case "version":
		if opts.version == "" {
			fail("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, opts.dir, opts.version); err != nil {
			fail("goose version migrate failed: %v", err)
		}
	default:
		fail("unknown -cmd value: %s", opts.cmd)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
