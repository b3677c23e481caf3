package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pantherexchange/internal/logging"
)

// ErrorHandler renders errors that escape route handlers, including the
// framework's own (body limit, unknown route), in the JSON error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		logging.FromContext(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}
