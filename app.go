package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"pantherexchange/internal/config"
	"pantherexchange/internal/database"
	"pantherexchange/internal/handlers"
	"pantherexchange/internal/middleware"
	"pantherexchange/internal/repositories"
	"pantherexchange/internal/services"
)

// store bundles the listing repository with its health check and teardown.
type store struct {
	repo  repositories.ListingRepository
	ping  func() error
	close func() error
}

// openStore builds the listing store selected by STORE_DRIVER.
func openStore(cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return &store{
			repo:  repositories.NewMemoryListingRepository(),
			close: func() error { return nil },
		}, nil
	case config.StoreSQLite, config.StorePostgres:
		db, err := database.Open(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:  repositories.NewGORMListingRepository(db),
			ping:  func() error { return database.Ping(db) },
			close: func() error { return database.Close(db) },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// NewApp assembles the Fiber app: middleware, health routes and listing routes.
func NewApp(cfg *config.Config, catalog services.Catalog, health *handlers.HealthHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "pantherexchange",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestContext())
	app.Use(middleware.Logger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.HeaderRequestID,
		ExposeHeaders: middleware.HeaderRequestID,
	}))

	health.RegisterRoutes(app)

	var createMiddleware []fiber.Handler
	if cfg.CreateRateLimit > 0 {
		createMiddleware = append(createMiddleware, middleware.RateLimit(cfg.CreateRateLimit, time.Minute))
	}
	handlers.NewListingHandler(catalog, handlers.ListingHandlerOptions{
		Path:     cfg.ListingsPath,
		Envelope: cfg.Envelope,
	}).RegisterRoutes(app, createMiddleware...)

	return app
}
