// Package main provides a database migration runner.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/config"
	"github.com/cory-johannsen/wta/internal/observability"
	"github.com/cory-johannsen/wta/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	dsn := cfg.Database.DSN()
	switch {
	case *direction == "up":
		res, err := postgres.Migrate(dsn, *steps, logger)
		if err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		report(res, *direction, start)
	case *direction == "down" && *steps > 0:
		res, err := postgres.Migrate(dsn, -*steps, logger)
		if err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		report(res, *direction, start)
	case *direction == "down":
		if err := postgres.MigrateDown(dsn, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		fmt.Fprintf(os.Stdout, "migrated down to empty schema [%s]\n", time.Since(start))
	default:
		logger.Fatal("invalid direction: must be 'up' or 'down'", zap.String("direction", *direction))
	}
}

func report(res postgres.MigrateResult, direction string, start time.Time) {
	elapsed := time.Since(start)
	if !res.Changed {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, elapsed)
		return
	}
	fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", direction, res.Version, res.Dirty, elapsed)
}
