package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorhive/tutorhive/internal/model"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `id, tutor_id, start_at, end_at, duration_minutes, status, booked_by, session_id, created_at`

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.TutorID,
		&slot.StartAt,
		&slot.EndAt,
		&slot.DurationMinutes,
		&slot.Status,
		&slot.BookedBy,
		&slot.SessionID,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new slot
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (tutor_id, start_at, end_at, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		slot.TutorID,
		slot.StartAt,
		slot.EndAt,
		slot.DurationMinutes,
		slot.Status,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID fetches a slot by ID
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// HasOverlap reports whether any existing slot for the tutor overlaps
// [start, end). Status is deliberately not consulted: a disabled slot still
// blocks the interval.
func (r *SlotRepository) HasOverlap(ctx context.Context, tutorID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM slots
			WHERE tutor_id = $1 AND start_at < $3 AND end_at > $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, tutorID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot overlap: %w", err)
	}

	return exists, nil
}

// ListAvailable returns available slots for a tutor starting at or after the
// given instant, earliest first
func (r *SlotRepository) ListAvailable(ctx context.Context, tutorID uuid.UUID, from time.Time, limit int) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE tutor_id = $1
		  AND status = 'available'
		  AND start_at >= $2
		ORDER BY start_at
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, tutorID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

// ListByTutor returns all of a tutor's slots regardless of status
func (r *SlotRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID, limit int) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE tutor_id = $1
		ORDER BY start_at
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, tutorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list slots by tutor: %w", err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

// ListBookedBy returns slots booked by a user with the linked session attached
func (r *SlotRepository) ListBookedBy(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Slot, error) {
	query := `
		SELECT s.id, s.tutor_id, s.start_at, s.end_at, s.duration_minutes, s.status,
		       s.booked_by, s.session_id, s.created_at,
		       ss.id, ss.tutor_id, ss.student_id, ss.subject, ss.scheduled_at,
		       ss.duration_minutes, ss.status, ss.notes, ss.created_at
		FROM slots s
		LEFT JOIN sessions ss ON ss.id = s.session_id
		WHERE s.booked_by = $1
		ORDER BY s.start_at
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list booked slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		var slot model.Slot
		var sess model.Session
		var sessID *uuid.UUID
		var sessTutorID, sessStudentID *uuid.UUID
		var sessSubject, sessStatus, sessNotes *string
		var sessScheduledAt, sessCreatedAt *time.Time
		var sessDuration *int

		err := rows.Scan(
			&slot.ID,
			&slot.TutorID,
			&slot.StartAt,
			&slot.EndAt,
			&slot.DurationMinutes,
			&slot.Status,
			&slot.BookedBy,
			&slot.SessionID,
			&slot.CreatedAt,
			&sessID,
			&sessTutorID,
			&sessStudentID,
			&sessSubject,
			&sessScheduledAt,
			&sessDuration,
			&sessStatus,
			&sessNotes,
			&sessCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booked slot: %w", err)
		}

		if sessID != nil {
			sess.ID = *sessID
			sess.TutorID = *sessTutorID
			sess.StudentID = *sessStudentID
			sess.Subject = *sessSubject
			sess.ScheduledAt = *sessScheduledAt
			sess.DurationMinutes = *sessDuration
			sess.Status = model.SessionStatus(*sessStatus)
			sess.Notes = *sessNotes
			sess.CreatedAt = *sessCreatedAt
			slot.Session = &sess
		}

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked slots: %w", err)
	}

	return slots, nil
}

// Book marks an available slot as booked by the student. The compare-and-set
// on status closes the double-booking race: exactly one concurrent caller
// sees a row updated. Returns false when the slot was not available.
func (r *SlotRepository) Book(ctx context.Context, db DB, slotID, studentID uuid.UUID) (bool, error) {
	query := `
		UPDATE slots
		SET status = 'booked', booked_by = $1
		WHERE id = $2 AND status = 'available'
	`

	result, err := db.Exec(ctx, query, studentID, slotID)
	if err != nil {
		return false, fmt.Errorf("book slot: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// LinkSession writes the session back-reference on a booked slot
func (r *SlotRepository) LinkSession(ctx context.Context, db DB, slotID, sessionID uuid.UUID) error {
	query := `
		UPDATE slots
		SET session_id = $1
		WHERE id = $2
	`

	result, err := db.Exec(ctx, query, sessionID, slotID)
	if err != nil {
		return fmt.Errorf("link session to slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// Disable sets the slot status to disabled unconditionally
func (r *SlotRepository) Disable(ctx context.Context, slotID uuid.UUID) error {
	query := `
		UPDATE slots
		SET status = 'disabled'
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, slotID)
	if err != nil {
		return fmt.Errorf("disable slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// Delete removes a slot unless it is booked. Returns false when the
// conditional delete matched no row (slot booked meanwhile).
func (r *SlotRepository) Delete(ctx context.Context, slotID uuid.UUID) (bool, error) {
	query := `DELETE FROM slots WHERE id = $1 AND status <> 'booked'`

	result, err := r.pool.Exec(ctx, query, slotID)
	if err != nil {
		return false, fmt.Errorf("delete slot: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func collectSlots(rows pgx.Rows) ([]*model.Slot, error) {
	var slots []*model.Slot
	for rows.Next() {
		var slot model.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.TutorID,
			&slot.StartAt,
			&slot.EndAt,
			&slot.DurationMinutes,
			&slot.Status,
			&slot.BookedBy,
			&slot.SessionID,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}
