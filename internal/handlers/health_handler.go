package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness and readiness of the server.
type HealthHandler struct {
	storeDriver   string
	eventsEnabled bool
	ping          func() error
}

// NewHealthHandler creates a HealthHandler. ping checks the backing store and
// may be nil for stores that cannot become unreachable.
func NewHealthHandler(storeDriver string, eventsEnabled bool, ping func() error) *HealthHandler {
	return &HealthHandler{
		storeDriver:   storeDriver,
		eventsEnabled: eventsEnabled,
		ping:          ping,
	}
}

// RegisterRoutes registers /health and /ready.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/ready", h.HandleReady)
}

// HandleHealth reports that the process is up.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
		"store":  h.storeDriver,
		"events": h.eventsEnabled,
	})
}

// HandleReady reports whether the backing store answers.
func (h *HealthHandler) HandleReady(c *fiber.Ctx) error {
	if h.ping != nil {
		if err := h.ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"error":  "store unreachable",
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
