package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/model"
	"go.uber.org/zap"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type NotificationHandler struct {
	notifications NotificationService
	logger        *zap.Logger
}

func NewNotificationHandler(notifications NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	notifications, err := h.notifications.List(c.Context(), authedUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if notifications == nil {
		notifications = []*model.Notification{}
	}

	return c.JSON(notifications)
}

// MarkRead flags one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	notificationID, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid notification ID"})
	}

	if err := h.notifications.MarkRead(c.Context(), authedUserID(c), notificationID); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}
