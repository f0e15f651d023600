package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/events"
	"github.com/tutorhive/tutorhive/internal/model"
	"go.uber.org/zap"
)

const defaultSubject = "Tutoring"

type BookingService struct {
	tx          TxBeginner
	userRepo    UserStore
	slotRepo    SlotStore
	sessionRepo SessionStore
	outboxRepo  OutboxStore
	logger      *zap.Logger
}

func NewBookingService(
	tx TxBeginner,
	userRepo UserStore,
	slotRepo SlotStore,
	sessionRepo SessionStore,
	outboxRepo OutboxStore,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:          tx,
		userRepo:    userRepo,
		slotRepo:    slotRepo,
		sessionRepo: sessionRepo,
		outboxRepo:  outboxRepo,
		logger:      logger,
	}
}

type BookSlotInput struct {
	Subject string
	Notes   string
}

type BookingResult struct {
	Session *model.Session `json:"session"`
	Slot    *model.Slot    `json:"slot"`
}

// Book atomically transitions an available slot to booked, creates the
// linked session and queues the booking events. Slot update, session insert,
// back-link and outbox rows commit as one transaction: once the
// compare-and-set on the slot status lands, no other caller can book it.
func (s *BookingService) Book(ctx context.Context, studentID, slotID uuid.UUID, input BookSlotInput) (*BookingResult, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, ErrUserNotFound
	}

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	if slot.Status != model.SlotStatusAvailable {
		return nil, ErrSlotNotAvailable
	}

	tutor, err := s.userRepo.GetTutorProfileByID(ctx, slot.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}
	if tutor == nil {
		return nil, ErrTutorProfileNotFound
	}

	subject := input.Subject
	if subject == "" {
		subject = defaultSubject
	}

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	booked, err := s.slotRepo.Book(ctx, tx, slotID, studentID)
	if err != nil {
		return nil, fmt.Errorf("book slot: %w", err)
	}
	if !booked {
		// Lost the race to a concurrent booking
		return nil, ErrSlotNotAvailable
	}

	session := &model.Session{
		TutorID:         slot.TutorID,
		StudentID:       studentID,
		Subject:         subject,
		ScheduledAt:     slot.StartAt,
		DurationMinutes: slot.DurationMinutes,
		Status:          model.SessionStatusScheduled,
		Notes:           input.Notes,
	}

	if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.slotRepo.LinkSession(ctx, tx, slotID, session.ID); err != nil {
		return nil, fmt.Errorf("link session: %w", err)
	}

	event := events.NewBookingCreated(
		slotID, session.ID, tutor.UserID, studentID,
		subject, session.ScheduledAt, session.DurationMinutes,
	)
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal booking event: %w", err)
	}

	for _, recipient := range []uuid.UUID{tutor.UserID, studentID} {
		outboxEvent := &model.OutboxEvent{
			EventType:   events.TypeBookingCreated,
			RecipientID: recipient,
			Payload:     payload,
		}
		if err := s.outboxRepo.Append(ctx, tx, outboxEvent); err != nil {
			return nil, fmt.Errorf("queue booking event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Slot booked",
		zap.String("slot_id", slotID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("subject", subject),
	)

	slot.Status = model.SlotStatusBooked
	slot.BookedBy = &studentID
	slot.SessionID = &session.ID

	return &BookingResult{Session: session, Slot: slot}, nil
}
