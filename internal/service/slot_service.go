package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/model"
	"go.uber.org/zap"
)

const (
	minSlotDurationMinutes = 10
	// Grace period so a window starting "right now" survives client clock skew
	pastStartGrace = 60 * time.Second

	publicSlotListLimit = 200
	tutorSlotListLimit  = 1000
	bookingListLimit    = 200
)

type SlotService struct {
	userRepo UserStore
	slotRepo SlotStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewSlotService(userRepo UserStore, slotRepo SlotStore, logger *zap.Logger) *SlotService {
	return &SlotService{
		userRepo: userRepo,
		slotRepo: slotRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateSlotsInput carries either an explicit ISO instant pair or a
// (date, startTime, endTime) triple combined as wall-clock local time.
type CreateSlotsInput struct {
	Date               string // YYYY-MM-DD
	StartTime          string // HH:MM
	EndTime            string // HH:MM
	ScheduledStartIso  string
	ScheduledEndIso    string
	SlotDurationMinute int
}

type CreateSlotsResult struct {
	Created int           `json:"created"`
	Slots   []*model.Slot `json:"slots"`
}

// CreateSlots tiles the availability window into duration-sized candidates
// and inserts every candidate that does not overlap an existing slot of the
// same tutor. Zero created slots is a valid outcome.
func (s *SlotService) CreateSlots(ctx context.Context, userID uuid.UUID, input CreateSlotsInput) (*CreateSlotsResult, error) {
	tutor, err := s.requireTutorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	windowStart, windowEnd, err := resolveWindow(input)
	if err != nil {
		return nil, err
	}

	if input.SlotDurationMinute < minSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration must be at least %d minutes", ErrInvalidInput, minSlotDurationMinutes)
	}

	if !windowEnd.After(windowStart) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}

	if windowStart.Before(s.now().Add(-pastStartGrace)) {
		return nil, fmt.Errorf("%w: cannot create slots in the past", ErrInvalidInput)
	}

	duration := time.Duration(input.SlotDurationMinute) * time.Minute
	result := &CreateSlotsResult{Slots: []*model.Slot{}}

	for _, candidate := range tileWindow(windowStart, windowEnd, duration) {
		overlap, err := s.slotRepo.HasOverlap(ctx, tutor.ID, candidate.start, candidate.end)
		if err != nil {
			return nil, fmt.Errorf("check overlap: %w", err)
		}
		if overlap {
			// Overlapping candidates are skipped, never shifted or split
			continue
		}

		slot := &model.Slot{
			TutorID:         tutor.ID,
			StartAt:         candidate.start,
			EndAt:           candidate.end,
			DurationMinutes: input.SlotDurationMinute,
			Status:          model.SlotStatusAvailable,
		}

		if err := s.slotRepo.Create(ctx, slot); err != nil {
			return nil, fmt.Errorf("create slot: %w", err)
		}

		result.Slots = append(result.Slots, slot)
	}

	result.Created = len(result.Slots)

	s.logger.Info("Slots generated",
		zap.String("tutor_id", tutor.ID.String()),
		zap.Time("window_start", windowStart),
		zap.Time("window_end", windowEnd),
		zap.Int("created", result.Created),
	)

	return result, nil
}

// ListTutorSlots returns a tutor's available future slots (public view)
func (s *SlotService) ListTutorSlots(ctx context.Context, tutorID uuid.UUID) ([]*model.Slot, error) {
	return s.slotRepo.ListAvailable(ctx, tutorID, s.now(), publicSlotListLimit)
}

// ListMySlots returns all of the calling tutor's slots regardless of status
func (s *SlotService) ListMySlots(ctx context.Context, userID uuid.UUID) ([]*model.Slot, error) {
	tutor, err := s.requireTutorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.slotRepo.ListByTutor(ctx, tutor.ID, tutorSlotListLimit)
}

// ListMyBookings returns slots booked by the user with sessions attached
func (s *SlotService) ListMyBookings(ctx context.Context, userID uuid.UUID) ([]*model.Slot, error) {
	return s.slotRepo.ListBookedBy(ctx, userID, bookingListLimit)
}

// DisableSlot sets a slot to disabled. Owner-only, no state check: a booked
// slot can be disabled too, without touching its session.
func (s *SlotService) DisableSlot(ctx context.Context, userID, slotID uuid.UUID) error {
	slot, err := s.requireOwnedSlot(ctx, userID, slotID)
	if err != nil {
		return err
	}

	if err := s.slotRepo.Disable(ctx, slotID); err != nil {
		return fmt.Errorf("disable slot: %w", err)
	}

	s.logger.Info("Slot disabled",
		zap.String("slot_id", slotID.String()),
		zap.String("tutor_id", slot.TutorID.String()),
	)

	return nil
}

// DeleteSlot removes a slot unless it is booked
func (s *SlotService) DeleteSlot(ctx context.Context, userID, slotID uuid.UUID) error {
	slot, err := s.requireOwnedSlot(ctx, userID, slotID)
	if err != nil {
		return err
	}

	if slot.Status == model.SlotStatusBooked {
		return ErrSlotBooked
	}

	deleted, err := s.slotRepo.Delete(ctx, slotID)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if !deleted {
		// Booked between the read and the conditional delete
		return ErrSlotBooked
	}

	s.logger.Info("Slot deleted",
		zap.String("slot_id", slotID.String()),
		zap.String("tutor_id", slot.TutorID.String()),
	)

	return nil
}

func (s *SlotService) requireTutorProfile(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsTutor {
		return nil, ErrNotATutor
	}

	tutor, err := s.userRepo.GetTutorProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}
	if tutor == nil {
		return nil, ErrTutorProfileNotFound
	}

	return tutor, nil
}

func (s *SlotService) requireOwnedSlot(ctx context.Context, userID, slotID uuid.UUID) (*model.Slot, error) {
	tutor, err := s.requireTutorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.TutorID != tutor.ID {
		return nil, ErrNotSlotOwner
	}

	return slot, nil
}

type interval struct {
	start, end time.Time
}

// tileWindow cuts [start, end) into consecutive duration-sized intervals,
// dropping any trailing remainder shorter than duration
func tileWindow(start, end time.Time, duration time.Duration) []interval {
	var out []interval
	for cur := start; !cur.Add(duration).After(end); cur = cur.Add(duration) {
		out = append(out, interval{start: cur, end: cur.Add(duration)})
	}
	return out
}

// resolveWindow turns the input into a concrete [start, end) instant pair.
// The legacy triple is composed as wall-clock local time so the tutor's
// intended day boundary is not shifted by UTC normalization.
func resolveWindow(input CreateSlotsInput) (time.Time, time.Time, error) {
	if input.ScheduledStartIso != "" && input.ScheduledEndIso != "" {
		start, err := time.Parse(time.RFC3339, input.ScheduledStartIso)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid ISO start datetime", ErrInvalidInput)
		}
		end, err := time.Parse(time.RFC3339, input.ScheduledEndIso)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid ISO end datetime", ErrInvalidInput)
		}
		return start, end, nil
	}

	if input.Date == "" || input.StartTime == "" || input.EndTime == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: missing date or time params", ErrInvalidInput)
	}

	day, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid date format", ErrInvalidInput)
	}

	startClock, err := time.Parse("15:04", input.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid time format", ErrInvalidInput)
	}
	endClock, err := time.Parse("15:04", input.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid time format", ErrInvalidInput)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.Local)
	end := time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, time.Local)

	return start, end, nil
}
