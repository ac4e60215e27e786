package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/logger"
	"sareehouse/internal/validation"
)

// respondError renders err with the status of its kind. Server-side failures
// are logged; client errors are not.
func respondError(c *fiber.Ctx, log *slog.Logger, message string, err error) error {
	status := apperrors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithContext(c.UserContext(), log).Error(message,
			"method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
		"code":    apperrors.KindOf(err),
	})
}

// badBody answers a request whose body could not be parsed.
func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
		"code":    apperrors.KindValidation,
	})
}

// validationFailed answers with per-field messages when err came from the validator.
func validationFailed(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"message": "Validation failed",
		"error":   err.Error(),
		"code":    apperrors.KindValidation,
	}
	if fields := validation.FieldErrors(err); fields != nil {
		body["errors"] = fields
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
