package events

import (
	"time"

	"github.com/google/uuid"
)

// NATS subjects
const (
	SubjectBookingCreated = "booking.created"
)

// Event type tags carried in payloads and outbox rows
const (
	TypeBookingCreated = "booking.created"
)

// BookingCreatedEvent announces a completed booking transition. One copy is
// addressed to the tutor and one to the student.
type BookingCreatedEvent struct {
	EventType       string    `json:"event_type"`
	SlotID          uuid.UUID `json:"slot_id"`
	SessionID       uuid.UUID `json:"session_id"`
	TutorUserID     uuid.UUID `json:"tutor_user_id"`
	StudentID       uuid.UUID `json:"student_id"`
	Subject         string    `json:"subject"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

func NewBookingCreated(slotID, sessionID, tutorUserID, studentID uuid.UUID, subject string, scheduledAt time.Time, durationMinutes int) BookingCreatedEvent {
	return BookingCreatedEvent{
		EventType:       TypeBookingCreated,
		SlotID:          slotID,
		SessionID:       sessionID,
		TutorUserID:     tutorUserID,
		StudentID:       studentID,
		Subject:         subject,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
	}
}
