package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusDisabled  SlotStatus = "disabled"
)

type Slot struct {
	ID              uuid.UUID  `json:"id"`
	TutorID         uuid.UUID  `json:"tutorId"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           time.Time  `json:"endAt"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          SlotStatus `json:"status"`
	BookedBy        *uuid.UUID `json:"bookedBy,omitempty"` // pointer - nil until booked
	SessionID       *uuid.UUID `json:"sessionId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`

	// Populated for the my-bookings view, not stored on the slot row
	Session *Session `json:"session,omitempty"`
}
