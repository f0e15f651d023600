package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusDispatched OutboxStatus = "dispatched"
)

// OutboxEvent is a durable delivery task written in the same transaction as
// the state change it announces. The dispatcher drains pending rows and
// fans them out to the notification store, NATS and the realtime hub.
type OutboxEvent struct {
	ID           uuid.UUID       `json:"id"`
	EventType    string          `json:"eventType"`
	RecipientID  uuid.UUID       `json:"recipientId"`
	Payload      json.RawMessage `json:"payload"`
	Status       OutboxStatus    `json:"status"`
	Attempts     int             `json:"attempts"`
	CreatedAt    time.Time       `json:"createdAt"`
	DispatchedAt *time.Time      `json:"dispatchedAt,omitempty"`
}
