package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/events"
	"github.com/tutorhive/tutorhive/internal/model"
	"go.uber.org/zap"
)

type fakeOutboxSource struct {
	pending    []*model.OutboxEvent
	dispatched []uuid.UUID
	attempts   []uuid.UUID
}

func (f *fakeOutboxSource) ListPending(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutboxSource) MarkDispatched(_ context.Context, id uuid.UUID) error {
	f.dispatched = append(f.dispatched, id)
	return nil
}

func (f *fakeOutboxSource) RecordAttempt(_ context.Context, id uuid.UUID) error {
	f.attempts = append(f.attempts, id)
	return nil
}

type fakeNotificationCreator struct {
	created []*model.Notification
	err     error
}

func (f *fakeNotificationCreator) Create(_ context.Context, n *model.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

type fakeSink struct {
	published map[string][][]byte
	err       error
}

func (f *fakeSink) Publish(subject string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.published == nil {
		f.published = make(map[string][][]byte)
	}
	f.published[subject] = append(f.published[subject], payload)
	return nil
}

type hubMessage struct {
	channel string
	event   string
	data    json.RawMessage
}

type fakeHub struct {
	messages []hubMessage
}

func (f *fakeHub) Publish(channel, event string, data json.RawMessage) {
	f.messages = append(f.messages, hubMessage{channel: channel, event: event, data: data})
}

func bookingEvent(t *testing.T, recipient uuid.UUID) *model.OutboxEvent {
	t.Helper()

	event := events.NewBookingCreated(
		uuid.New(), uuid.New(), recipient, uuid.New(),
		"Algebra", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 45,
	)
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}

	return &model.OutboxEvent{
		ID:          uuid.New(),
		EventType:   events.TypeBookingCreated,
		RecipientID: recipient,
		Payload:     payload,
	}
}

func TestDrainDeliversBookingEvent(t *testing.T) {
	recipient := uuid.New()
	outbox := &fakeOutboxSource{pending: []*model.OutboxEvent{bookingEvent(t, recipient)}}
	notifications := &fakeNotificationCreator{}
	sink := &fakeSink{}
	hub := &fakeHub{}

	d := NewDispatcher(outbox, notifications, sink, hub, zap.NewNop())
	d.drain(context.Background())

	if len(notifications.created) != 1 {
		t.Fatalf("notifications created = %d; want 1", len(notifications.created))
	}
	n := notifications.created[0]
	if n.UserID != recipient {
		t.Errorf("notification user = %v; want %v", n.UserID, recipient)
	}
	if n.Type != model.NotificationSessionBooked {
		t.Errorf("notification type = %q", n.Type)
	}

	if len(sink.published[events.TypeBookingCreated]) != 1 {
		t.Errorf("sink publishes = %v", sink.published)
	}

	// Two realtime pushes per event: the domain event plus the notification
	if len(hub.messages) != 2 {
		t.Fatalf("hub messages = %d; want 2", len(hub.messages))
	}
	for _, msg := range hub.messages {
		if msg.channel != "user:"+recipient.String() {
			t.Errorf("channel = %q", msg.channel)
		}
	}
	if hub.messages[0].event != "session_created" {
		t.Errorf("first event = %q; want session_created", hub.messages[0].event)
	}
	if hub.messages[1].event != "notification" {
		t.Errorf("second event = %q; want notification", hub.messages[1].event)
	}

	if len(outbox.dispatched) != 1 {
		t.Errorf("dispatched = %v; want one id", outbox.dispatched)
	}
	if len(outbox.attempts) != 0 {
		t.Errorf("attempts recorded on success: %v", outbox.attempts)
	}
}

func TestDrainRetriesOnNotificationFailure(t *testing.T) {
	outbox := &fakeOutboxSource{pending: []*model.OutboxEvent{bookingEvent(t, uuid.New())}}
	notifications := &fakeNotificationCreator{err: errors.New("db down")}

	d := NewDispatcher(outbox, notifications, &fakeSink{}, &fakeHub{}, zap.NewNop())
	d.drain(context.Background())

	if len(outbox.dispatched) != 0 {
		t.Errorf("event marked dispatched despite failure: %v", outbox.dispatched)
	}
	if len(outbox.attempts) != 1 {
		t.Errorf("attempts = %d; want 1", len(outbox.attempts))
	}
}

func TestDrainSinkFailureIsAdvisory(t *testing.T) {
	outbox := &fakeOutboxSource{pending: []*model.OutboxEvent{bookingEvent(t, uuid.New())}}
	notifications := &fakeNotificationCreator{}
	hub := &fakeHub{}

	d := NewDispatcher(outbox, notifications, &fakeSink{err: errors.New("nats down")}, hub, zap.NewNop())
	d.drain(context.Background())

	// Event still counts as delivered: notification stored, hub pushed
	if len(outbox.dispatched) != 1 {
		t.Errorf("dispatched = %v; want one id", outbox.dispatched)
	}
	if len(notifications.created) != 1 {
		t.Errorf("notifications created = %d; want 1", len(notifications.created))
	}
	if len(hub.messages) == 0 {
		t.Error("hub push skipped on sink failure")
	}
}

func TestDrainWithoutSink(t *testing.T) {
	outbox := &fakeOutboxSource{pending: []*model.OutboxEvent{bookingEvent(t, uuid.New())}}
	notifications := &fakeNotificationCreator{}

	d := NewDispatcher(outbox, notifications, nil, &fakeHub{}, zap.NewNop())
	d.drain(context.Background())

	if len(outbox.dispatched) != 1 {
		t.Errorf("dispatched = %v; want one id", outbox.dispatched)
	}
}

func TestDrainUnknownEventType(t *testing.T) {
	event := &model.OutboxEvent{
		ID:          uuid.New(),
		EventType:   "mystery.event",
		RecipientID: uuid.New(),
		Payload:     json.RawMessage(`{}`),
	}
	outbox := &fakeOutboxSource{pending: []*model.OutboxEvent{event}}

	d := NewDispatcher(outbox, &fakeNotificationCreator{}, nil, &fakeHub{}, zap.NewNop())
	d.drain(context.Background())

	if len(outbox.dispatched) != 0 {
		t.Error("unknown event type marked dispatched")
	}
	if len(outbox.attempts) != 1 {
		t.Errorf("attempts = %d; want 1", len(outbox.attempts))
	}
}
