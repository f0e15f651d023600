package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/events"
	"github.com/tutorhive/tutorhive/internal/model"
	"github.com/tutorhive/tutorhive/internal/realtime"
	"go.uber.org/zap"
)

const (
	defaultInterval = 2 * time.Second
	dispatchBatch   = 100
)

type OutboxSource interface {
	ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkDispatched(ctx context.Context, id uuid.UUID) error
	RecordAttempt(ctx context.Context, id uuid.UUID) error
}

type NotificationCreator interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Sink pushes payloads to out-of-process consumers (NATS)
type Sink interface {
	Publish(subject string, payload []byte) error
}

// RealtimePublisher pushes events to connected websocket clients
type RealtimePublisher interface {
	Publish(channel, event string, data json.RawMessage)
}

// Dispatcher drains the outbox and delivers booking events to the
// notification store, the push sink and the realtime hub. Delivery runs
// outside the booking transaction: a failed sink never fails a booking,
// and a crashed dispatcher picks pending rows back up on restart.
type Dispatcher struct {
	outbox        OutboxSource
	notifications NotificationCreator
	sink          Sink
	hub           RealtimePublisher
	logger        *zap.Logger
	interval      time.Duration
	stopChan      chan struct{}
}

func NewDispatcher(
	outbox OutboxSource,
	notifications NotificationCreator,
	sink Sink,
	hub RealtimePublisher,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		outbox:        outbox,
		notifications: notifications,
		sink:          sink,
		hub:           hub,
		logger:        logger,
		interval:      defaultInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start launches the drain loop
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting outbox dispatcher")
	go d.run(ctx)
}

// Stop halts the drain loop
func (d *Dispatcher) Stop() {
	d.logger.Info("Stopping outbox dispatcher")
	close(d.stopChan)
}

func (d *Dispatcher) run(ctx context.Context) {
	// First drain right away so bookings made before startup are delivered
	d.drain(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.drain(ctx)
		case <-d.stopChan:
			d.logger.Info("Outbox dispatcher stopped")
			return
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher cancelled")
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	pending, err := d.outbox.ListPending(ctx, dispatchBatch)
	if err != nil {
		d.logger.Error("Failed to list pending outbox events", zap.Error(err))
		return
	}

	for _, event := range pending {
		if err := d.deliver(ctx, event); err != nil {
			d.logger.Error("Failed to deliver outbox event",
				zap.String("event_id", event.ID.String()),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			if err := d.outbox.RecordAttempt(ctx, event.ID); err != nil {
				d.logger.Error("Failed to record delivery attempt", zap.Error(err))
			}
			continue
		}

		if err := d.outbox.MarkDispatched(ctx, event.ID); err != nil {
			d.logger.Error("Failed to mark outbox event dispatched",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// deliver fans one event out. The notification insert is the durable part
// and aborts delivery on failure so the event is retried; sink and realtime
// pushes are advisory and only logged.
func (d *Dispatcher) deliver(ctx context.Context, event *model.OutboxEvent) error {
	notification, err := buildNotification(event)
	if err != nil {
		return err
	}

	if err := d.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if d.sink != nil {
		if err := d.sink.Publish(subjectFor(event.EventType), event.Payload); err != nil {
			d.logger.Warn("Push sink publish failed",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
		}
	}

	if d.hub != nil {
		channel := realtime.UserChannel(event.RecipientID)
		d.hub.Publish(channel, realtimeEventFor(event.EventType), event.Payload)

		notificationJSON, err := json.Marshal(notification)
		if err == nil {
			d.hub.Publish(channel, "notification", notificationJSON)
		}
	}

	return nil
}

func buildNotification(event *model.OutboxEvent) (*model.Notification, error) {
	switch event.EventType {
	case events.TypeBookingCreated:
		var payload events.BookingCreatedEvent
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal booking event: %w", err)
		}

		return &model.Notification{
			UserID:   event.RecipientID,
			Type:     model.NotificationSessionBooked,
			Title:    "Session booked",
			Message:  fmt.Sprintf("%s session on %s", payload.Subject, payload.ScheduledAt.Format("Jan 2 15:04")),
			Data:     event.Payload,
			Priority: model.NotificationPriorityMedium,
			Category: "session",
		}, nil
	default:
		return nil, fmt.Errorf("unknown outbox event type %q", event.EventType)
	}
}

func subjectFor(eventType string) string {
	return eventType
}

func realtimeEventFor(eventType string) string {
	switch eventType {
	case events.TypeBookingCreated:
		return "session_created"
	default:
		return eventType
	}
}
