package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tutorhive/tutorhive/internal/service"
	"go.uber.org/zap"
)

// respondError maps service errors onto the HTTP taxonomy. Unexpected
// errors are logged and reported as a generic server error.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	case errors.Is(err, service.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	case errors.Is(err, service.ErrNotATutor):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Only tutors"})
	case errors.Is(err, service.ErrNotSlotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not your slot"})
	case errors.Is(err, service.ErrNotProfileOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
	case errors.Is(err, service.ErrTutorProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Tutor profile not found"})
	case errors.Is(err, service.ErrSlotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Slot not found"})
	case errors.Is(err, service.ErrNotificationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Notification not found"})
	case errors.Is(err, service.ErrSlotNotAvailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Slot not available"})
	case errors.Is(err, service.ErrSlotBooked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Cannot delete booked slot"})
	case errors.Is(err, service.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		logger.Error("Request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
}
