package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pantherexchange/internal/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestContext assigns each request an id (reusing a client supplied one)
// and stores a logger tagged with it in the request's user context.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)
		c.Locals("request_id", requestID)

		logger := log.Logger.With().Str("request_id", requestID).Logger()
		c.SetUserContext(logging.WithLogger(c.UserContext(), &logger))

		return c.Next()
	}
}
