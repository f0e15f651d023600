package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/model"
	"go.uber.org/zap"
)

const notificationListLimit = 100

type NotificationService struct {
	notificationRepo NotificationStore
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, notificationListLimit)
}

// MarkRead flags one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return ErrNotificationNotFound
	}

	return nil
}
