package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"

	"pantherexchange/internal/logging"
)

// Logger returns a request logger that writes one line per request through
// the zerolog logger.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${status} | ${latency} | ${method} ${path} | ${locals:request_id}\n",
		TimeFormat: "15:04:05",
		Output:     logging.Writer(zerolog.InfoLevel),
	})
}
