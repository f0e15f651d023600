package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSessionBooked    NotificationType = "session_booked"
	NotificationSessionCancelled NotificationType = "session_cancelled"
	NotificationSessionReminder  NotificationType = "session_reminder"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
)

type Notification struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"userId"`
	Type      NotificationType     `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Data      json.RawMessage      `json:"data"`
	Read      bool                 `json:"read"`
	Priority  NotificationPriority `json:"priority"`
	Category  string               `json:"category"`
	CreatedAt time.Time            `json:"createdAt"`
}
