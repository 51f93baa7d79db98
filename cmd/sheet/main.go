// Package main provides the werewolf character sheet binary: an interactive
// terminal session backed by PostgreSQL or process memory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/config"
	"github.com/cory-johannsen/wta/internal/console"
	"github.com/cory-johannsen/wta/internal/game/command"
	"github.com/cory-johannsen/wta/internal/game/dice"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/modifier"
	"github.com/cory-johannsen/wta/internal/game/rage"
	"github.com/cory-johannsen/wta/internal/game/sheet"
	"github.com/cory-johannsen/wta/internal/observability"
	"github.com/cory-johannsen/wta/internal/scripting"
	"github.com/cory-johannsen/wta/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	memory := flag.Bool("memory", false, "keep actors in memory instead of PostgreSQL")
	migrateUp := flag.Bool("migrate", false, "apply schema migrations before starting")
	seed := flag.Uint64("seed", 0, "seed for reproducible dice; 0 = crypto randomness")
	color := flag.Bool("color", true, "colorize terminal output")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	catalog, err := gift.LoadCatalog(cfg.Content.GiftsFile)
	if err != nil {
		logger.Fatal("loading gift catalog", zap.Error(err))
	}
	logger.Info("gift catalog loaded", zap.Int("types", len(catalog.Types())))

	bonuses, err := modifier.LoadDirectory(cfg.Content.ModifiersDir)
	if err != nil {
		logger.Fatal("loading modifiers", zap.Error(err))
	}
	evaluator := scripting.NewEvaluator(cfg.Scripting.InstructionLimit, logger)
	for _, b := range bonuses.All() {
		if b.ActiveWhen == "" {
			continue
		}
		if err := evaluator.Compile(b.ActiveWhen); err != nil {
			logger.Fatal("compiling modifier predicate", zap.String("modifier", b.ID), zap.Error(err))
		}
	}
	logger.Info("modifiers loaded", zap.Int("count", len(bonuses.All())))

	var src dice.Source
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
		logger.Info("dice seeded", zap.Uint64("seed", *seed))
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	var dir console.Directory
	if *memory {
		dir = sheet.NewMemoryStore()
		logger.Info("using in-memory store")
	} else {
		if *migrateUp {
			if _, err := postgres.Migrate(cfg.Database.DSN(), 0, logger); err != nil {
				logger.Fatal("migrating database", zap.Error(err))
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		dir = postgres.NewActorRepository(pool.DB())
	}

	term := console.NewTerminal(os.Stdin, os.Stdout, *color)
	ctl := sheet.NewController(sheet.Deps{
		Store:    dir,
		Roller:   roller,
		Prompter: term,
		Chat:     term,
		Bonuses:  modifier.NewAggregator(bonuses, evaluator, logger),
		Rage:     rage.NewMachine(rage.Config{AutomatedRage: cfg.Rules.AutomatedRage}, logger),
		Catalog:  catalog,
		Logger:   logger,
	})
	session := console.NewSession(term, ctl, dir, roller, command.DefaultRegistry(), logger)

	logger.Info("sheet ready",
		zap.Bool("automated_rage", cfg.Rules.AutomatedRage),
		zap.Duration("startup", time.Since(start)),
	)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("session ended", zap.Error(err))
	}
	logger.Info("goodbye")
}
