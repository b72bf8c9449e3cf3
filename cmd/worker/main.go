package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/config"
	"github.com/charging-catalog/internal/infrastructure/here"
	"github.com/charging-catalog/internal/pkg/logger"
	"github.com/charging-catalog/internal/repository/cache"
	"github.com/charging-catalog/internal/repository/elastic"
	"github.com/charging-catalog/internal/repository/postgres"
	"github.com/charging-catalog/internal/usecase"
	"github.com/charging-catalog/internal/worker"
	"github.com/charging-catalog/internal/worker/ingest"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Feed Ingest Worker")
	log.Info("Configuration loaded",
		zap.Duration("poll_interval", cfg.Worker.PollInterval),
		zap.String("resync_schedule", cfg.Worker.ResyncSchedule),
		zap.Float64("center_lat", cfg.Here.CenterLat),
		zap.Float64("center_lon", cfg.Here.CenterLon))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Connect to Elasticsearch
	esClient, err := elastic.New(&cfg.Elastic, log)
	if err != nil {
		log.Fatal("Failed to connect to Elasticsearch", zap.Error(err))
	}

	// 6. Initialize repositories
	locationRepo := postgres.NewLocationRepository(db)
	chargerRepo := postgres.NewChargerRepository(db)
	referenceRepo := postgres.NewReferenceRepository(db)
	amenityRepo := postgres.NewAmenityRepository(db)
	searchIndex := elastic.NewIndexRepository(esClient)
	cacheRepo := cache.NewCacheRepository(redisClient)
	feedClient := here.NewClient(&cfg.Here, log)

	// 7. Initialize use cases
	locationUC := usecase.NewLocationUseCase(
		locationRepo,
		amenityRepo,
		searchIndex,
		cacheRepo,
		log,
	)

	chargerUC := usecase.NewChargerUseCase(
		chargerRepo,
		locationRepo,
		referenceRepo,
		searchIndex,
		cacheRepo,
		log,
	)

	ingestUC := usecase.NewIngestUseCase(
		locationRepo,
		locationUC,
		chargerUC,
		log,
	)

	// 8. Initialize workers
	feedWorker := ingest.NewFeedIngestWorker(
		feedClient,
		ingestUC,
		&cfg.Here,
		cfg.Worker.PollInterval,
		log,
	)

	// 9. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(feedWorker)

	// 10. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 11. Schedule the nightly full index rebuild
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.ResyncSchedule, func() {
		resyncCtx, resyncCancel := context.WithTimeout(ctx, 30*time.Minute)
		defer resyncCancel()

		log.Info("Scheduled resync starting")
		result, err := locationUC.Resync(resyncCtx)
		if err != nil {
			log.Error("Scheduled resync failed", zap.Error(err))
			return
		}
		log.Info("Scheduled resync complete",
			zap.Int("indexed_locations", result.IndexedLocations))
	})
	if err != nil {
		log.Fatal("Failed to schedule resync", zap.Error(err))
	}
	scheduler.Start()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Stop the scheduler, then cancel context to stop workers
	cronCtx := scheduler.Stop()
	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	// Wait for any in-flight cron job to finish
	<-cronCtx.Done()

	log.Info("Worker shutdown complete")
}
