package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shukli/price-ingest/config"
	"github.com/shukli/price-ingest/internal/catalog/repository"
	"github.com/shukli/price-ingest/internal/database"
	"github.com/shukli/price-ingest/internal/ingest/usecase"
	"github.com/shukli/price-ingest/internal/logger"
	"github.com/shukli/price-ingest/internal/scheduler"
	"github.com/shukli/price-ingest/internal/supplier"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&cfg.Logger, cfg.Server.AppEnv == "development")
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewPostgres(&cfg.Postgres)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize supplier client and store registry
	client := supplier.NewClient(&cfg.Supplier, appLogger)
	registry, err := supplier.NewRegistry(client, cfg.Supplier.ChainName, cfg.Ingest.Stores, appLogger)
	if err != nil {
		appLogger.Fatal("Invalid store configuration", zap.Error(err))
	}

	// 5. Initialize repository and pipeline
	repo := repository.NewPGRepository(db, cfg.Ingest.BatchSize, appLogger)
	ingestUC := usecase.NewIngestUseCase(client, registry, repo, appLogger)

	// 6. Start Scheduler
	sched, err := scheduler.New(&cfg.Scheduler, ingestUC, appLogger)
	if err != nil {
		appLogger.Fatal("Could not build scheduler", zap.Error(err))
	}

	if cfg.Ingest.RunOnStart {
		go func() {
			if _, err := ingestUC.RunOnce(context.Background()); err != nil {
				appLogger.Error("Startup ingest run failed", zap.Error(err))
			}
		}()
	}

	sched.Start()
	appLogger.Info("Price ingest scheduler started",
		zap.Strings("run_at", cfg.Scheduler.RunAt),
		zap.String("timezone", cfg.Scheduler.Timezone),
	)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	<-sched.Stop().Done()
	appLogger.Info("Scheduler stopped")
}
