package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/tutorhive/tutorhive/internal/events"
	"github.com/tutorhive/tutorhive/internal/model"
	"github.com/tutorhive/tutorhive/internal/repository"
	"go.uber.org/zap"
)

// fakeTx satisfies pgx.Tx via embedding; only Commit and Rollback matter here
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTxBeginner struct {
	tx *fakeTx
}

func (b *fakeTxBeginner) Begin(context.Context) (pgx.Tx, error) {
	b.tx = &fakeTx{}
	return b.tx, nil
}

type fakeSessionStore struct {
	sessions map[uuid.UUID]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*model.Session)}
}

func (f *fakeSessionStore) Create(_ context.Context, _ repository.DB, session *model.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	return f.sessions[id], nil
}

type fakeOutboxStore struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxStore) Append(_ context.Context, _ repository.DB, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

type bookingFixture struct {
	users    *fakeUserStore
	slots    *fakeSlotStore
	sessions *fakeSessionStore
	outbox   *fakeOutboxStore
	beginner *fakeTxBeginner
	svc      *BookingService

	tutorUserID uuid.UUID
	tutorID     uuid.UUID
	studentID   uuid.UUID
	slot        *model.Slot
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		users:    newFakeUserStore(),
		slots:    newFakeSlotStore(),
		sessions: newFakeSessionStore(),
		outbox:   &fakeOutboxStore{},
		beginner: &fakeTxBeginner{},
	}
	f.tutorUserID, f.tutorID = f.users.addTutor()
	f.studentID = f.users.addStudent()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	f.slot = f.slots.add(&model.Slot{
		TutorID:         f.tutorID,
		StartAt:         start,
		EndAt:           start.Add(45 * time.Minute),
		DurationMinutes: 45,
		Status:          model.SlotStatusAvailable,
	})

	f.svc = NewBookingService(f.beginner, f.users, f.slots, f.sessions, f.outbox, zap.NewNop())
	return f
}

func TestBookSlot(t *testing.T) {
	f := newBookingFixture(t)

	result, err := f.svc.Book(context.Background(), f.studentID, f.slot.ID, BookSlotInput{
		Subject: "Algebra",
		Notes:   "Chapter 4 review",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	require.NotNil(t, result.Slot)

	require.Equal(t, model.SlotStatusBooked, result.Slot.Status)
	require.Equal(t, &f.studentID, result.Slot.BookedBy)
	require.Equal(t, &result.Session.ID, result.Slot.SessionID)

	require.Equal(t, f.tutorID, result.Session.TutorID)
	require.Equal(t, f.studentID, result.Session.StudentID)
	require.Equal(t, "Algebra", result.Session.Subject)
	require.Equal(t, "Chapter 4 review", result.Session.Notes)
	require.Equal(t, model.SessionStatusScheduled, result.Session.Status)
	// Session inherits the slot's schedule
	require.True(t, result.Session.ScheduledAt.Equal(f.slot.StartAt))
	require.Equal(t, 45, result.Session.DurationMinutes)

	require.True(t, f.beginner.tx.committed)
	require.False(t, f.beginner.tx.rolledBack)
}

func TestBookSlotQueuesEventsForBothParties(t *testing.T) {
	f := newBookingFixture(t)

	result, err := f.svc.Book(context.Background(), f.studentID, f.slot.ID, BookSlotInput{})
	require.NoError(t, err)

	require.Len(t, f.outbox.events, 2)
	recipients := map[uuid.UUID]bool{}
	for _, event := range f.outbox.events {
		require.Equal(t, events.TypeBookingCreated, event.EventType)
		require.JSONEq(t, string(f.outbox.events[0].Payload), string(event.Payload))
		recipients[event.RecipientID] = true
	}
	require.True(t, recipients[f.tutorUserID], "tutor should be notified")
	require.True(t, recipients[f.studentID], "student should be notified")

	// Empty subject falls back to the default
	require.Equal(t, "Tutoring", result.Session.Subject)
}

func TestBookSlotNotAvailable(t *testing.T) {
	f := newBookingFixture(t)
	f.slot.Status = model.SlotStatusDisabled

	_, err := f.svc.Book(context.Background(), f.studentID, f.slot.ID, BookSlotInput{})
	require.ErrorIs(t, err, ErrSlotNotAvailable)
	require.Empty(t, f.sessions.sessions)
	require.Empty(t, f.outbox.events)
}

func TestBookSlotLostRace(t *testing.T) {
	f := newBookingFixture(t)

	// Pre-check sees an available slot but a concurrent booking wins the
	// compare-and-set inside the transaction
	f.slots.bookDenied = true

	_, err := f.svc.Book(context.Background(), f.studentID, f.slot.ID, BookSlotInput{})
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	require.Empty(t, f.sessions.sessions)
	require.Empty(t, f.outbox.events)
	require.True(t, f.beginner.tx.rolledBack)
	require.False(t, f.beginner.tx.committed)
}

func TestBookSlotNotFound(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.Book(context.Background(), f.studentID, uuid.New(), BookSlotInput{})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookSlotUnknownStudent(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.Book(context.Background(), uuid.New(), f.slot.ID, BookSlotInput{})
	require.ErrorIs(t, err, ErrUserNotFound)
}
