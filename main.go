package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"pantherexchange/internal/config"
	"pantherexchange/internal/handlers"
	"pantherexchange/internal/logging"
	"pantherexchange/internal/seed"
	"pantherexchange/internal/services"
	"pantherexchange/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server gracefully stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	// --- Listing store ---
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()
	log.Info().Str("driver", cfg.StoreDriver).Msg("Listing store ready")

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	eventsEnabled := false
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient
		eventsEnabled = true

		if cfg.ConsumeEvents {
			if err := mqClient.ConsumeListingEvents(logListingEvent); err != nil {
				log.Error().Err(err).Msg("Failed to start RabbitMQ consumer")
			}
		}
	}

	// --- Service ---
	catalog := services.NewCatalogService(st.repo, publisher, services.CatalogOptions{
		Currency:      cfg.Currency,
		MaxImageBytes: cfg.MaxImageBytes,
	})

	if cfg.SeedFile != "" {
		inputs, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		if _, err := seed.ApplyIfEmpty(ctx, catalog, inputs); err != nil {
			return err
		}
	}

	// --- HTTP server ---
	health := handlers.NewHealthHandler(cfg.StoreDriver, eventsEnabled, st.ping)
	app := NewApp(cfg, catalog, health)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Listen(cfg.AppPort)
	}()
	log.Info().Str("addr", cfg.AppPort).Str("listings_path", cfg.ListingsPath).Msg("Starting server")

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	return nil
}

// logListingEvent records listing events taken off the queue.
func logListingEvent(event rabbitmq.ListingEvent) error {
	log.Info().
		Str("event", event.Event).
		Int64("listing_id", event.ListingID).
		Str("category", string(event.Category)).
		Str("price", event.Price.Format("")+" "+event.Currency).
		Msg("Received listing event")
	return nil
}
