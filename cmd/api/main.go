package main

// @title Charging Catalog API
// @version 1.0.0
// @description Catalog of EV charging locations backed by PostgreSQL with a denormalized Elasticsearch mirror for geo, facet and full-text search.
// @description
// @description Main capabilities:
// @description - Location and charger CRUD with synchronous index mirroring
// @description - Combined facet/full-text search with optional fuzziness
// @description - Nearby radius search and along-route corridor search
// @description - Query-time open/closed status from stored working hours
// @description - Full index rebuild endpoint for divergence repair

// @contact.name API Support
// @contact.email support@charging-catalog.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/charging-catalog/docs/swagger"
	"github.com/charging-catalog/internal/config"
	httpDelivery "github.com/charging-catalog/internal/delivery/http"
	"github.com/charging-catalog/internal/delivery/http/handler"
	"github.com/charging-catalog/internal/pkg/logger"
	"github.com/charging-catalog/internal/repository/cache"
	"github.com/charging-catalog/internal/repository/elastic"
	"github.com/charging-catalog/internal/repository/postgres"
	"github.com/charging-catalog/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Charging Catalog API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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
	log.Info("PostgreSQL connected")

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
	log.Info("Redis connected")

	// 5. Connect to Elasticsearch
	esClient, err := elastic.New(&cfg.Elastic, log)
	if err != nil {
		log.Fatal("Failed to connect to Elasticsearch", zap.Error(err))
	}
	log.Info("Elasticsearch connected")

	// 6. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 7. Initialize repositories
	locationRepo := postgres.NewLocationRepository(db)
	chargerRepo := postgres.NewChargerRepository(db)
	referenceRepo := postgres.NewReferenceRepository(db)
	amenityRepo := postgres.NewAmenityRepository(db)
	searchIndex := elastic.NewIndexRepository(esClient)
	cacheRepo := cache.NewCacheRepository(redisClient)

	log.Info("Repositories initialized")

	// 8. Ensure the search index exists before taking traffic
	if err := searchIndex.EnsureIndex(ctx); err != nil {
		log.Fatal("Failed to ensure search index", zap.Error(err))
	}

	// 9. Initialize use cases
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

	searchUC := usecase.NewSearchUseCase(
		searchIndex,
		referenceRepo,
		amenityRepo,
		cacheRepo,
		log,
		cfg.Cache.SearchCacheTTL,
	)

	log.Info("Use cases initialized")

	// 10. Initialize HTTP handlers
	locationHandler := handler.NewLocationHandler(locationUC, log)
	chargerHandler := handler.NewChargerHandler(chargerUC, log)
	searchHandler := handler.NewSearchHandler(searchUC, log)

	log.Info("HTTP handlers initialized")

	// 11. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		locationHandler,
		chargerHandler,
		searchHandler,
		db,
		redisClient,
	)

	log.Info("HTTP server initialized")

	// 12. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 13. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
