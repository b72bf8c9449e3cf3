package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/config"
	"github.com/charging-catalog/internal/delivery/http/handler"
	"github.com/charging-catalog/internal/delivery/http/middleware"
)

// HealthChecker reports the liveness of one backing store.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server is the fiber HTTP server wiring middleware, routes and handlers.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	locationHandler *handler.LocationHandler
	chargerHandler  *handler.ChargerHandler
	searchHandler   *handler.SearchHandler

	db    HealthChecker
	redis HealthChecker
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	locationHandler *handler.LocationHandler,
	chargerHandler *handler.ChargerHandler,
	searchHandler *handler.SearchHandler,
	db HealthChecker,
	redis HealthChecker,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Charging Catalog",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		locationHandler: locationHandler,
		chargerHandler:  chargerHandler,
		searchHandler:   searchHandler,
		db:              db,
		redis:           redis,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Prometheus metrics
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Location routes
	api.Post("/locations", s.locationHandler.Create)
	api.Get("/locations", s.locationHandler.List)
	api.Post("/locations/resync", s.locationHandler.Resync)
	api.Get("/locations/:id", s.locationHandler.GetByID)
	api.Put("/locations/:id", s.locationHandler.Update)
	api.Delete("/locations/:id", s.locationHandler.Delete)

	// Charger routes
	api.Post("/chargers", s.chargerHandler.Create)
	api.Get("/chargers/:id", s.chargerHandler.GetByID)
	api.Put("/chargers/:id", s.chargerHandler.Update)
	api.Delete("/chargers/:id", s.chargerHandler.Delete)

	// Search routes
	api.Get("/search", s.searchHandler.Search)
	api.Get("/search/filters", s.searchHandler.Filters)
	api.Post("/search/nearby", s.searchHandler.Nearby)
	api.Post("/search/along-route", s.searchHandler.AlongRoute)
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	checks := fiber.Map{}

	if err := s.db.Health(ctx); err != nil {
		status = "degraded"
		checks["postgres"] = err.Error()
	} else {
		checks["postgres"] = "ok"
	}
	if err := s.redis.Health(ctx); err != nil {
		status = "degraded"
		checks["redis"] = err.Error()
	} else {
		checks["redis"] = "ok"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"checks": checks,
		"time":   time.Now(),
	})
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
