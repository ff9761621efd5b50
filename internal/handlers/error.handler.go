package handlers

import (
	"errors"

	"bakimtrack/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// handleError translates the error taxonomy into HTTP responses. Scope
// failures surface verbatim; nothing is downgraded to an empty result.
func handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	case errors.Is(err, apperrors.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, apperrors.ErrInvalidCode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid QR code",
		})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status change not permitted",
		})
	case errors.Is(err, apperrors.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Service temporarily unavailable",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
