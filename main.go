package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/config"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/reconcile"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/server"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/syncer"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/synthetic"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// .env is optional; DATABASE_URL may come from the real environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to load .env file", zap.Error(err))
	}

	// Load configuration
	cfgPath := "configs/config.yml"
	if fromEnv := os.Getenv("HELIX_CONFIG"); fromEnv != "" {
		cfgPath = fromEnv
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := repository.MigrateDB(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	legalCaseRepo := repository.NewLegalCaseRepository(db, logger)
	sourceRepo := repository.NewDataSourceRepository(db, logger)
	updateRepo := repository.NewRegulatoryUpdateRepository(db, logger)

	// Jurisdiction targets: built-in table with per-code config overrides
	jurisdictions := synthetic.DefaultJurisdictions()
	for i, jur := range jurisdictions {
		if desired, ok := cfg.Sync.DesiredCases[jur.Code]; ok {
			jurisdictions[i].Desired = desired
		}
	}

	engine := reconcile.NewEngine(legalCaseRepo, synthetic.Factory{}, logger)
	orchestrator := syncer.NewOrchestrator(sourceRepo, updateRepo, engine, synthetic.Factory{}, jurisdictions, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the sync scheduler in a goroutine (if enabled)
	if cfg.Sync.Enabled {
		scheduler := syncer.NewScheduler(
			orchestrator,
			time.Duration(cfg.Sync.PollInterval)*time.Second,
			time.Duration(cfg.Sync.RunTimeout)*time.Second,
			logger,
		)
		go scheduler.Run(ctx)
	}

	// Initialize and run the server
	srv := server.NewServer(db, orchestrator, logger)
	srv.Run(cfg.Server.Port)
}
