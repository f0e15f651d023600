package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorhive/tutorhive/internal/model"
)

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Append writes an outbox event. Takes the transaction handle so the event
// commits atomically with the state change it announces.
func (r *OutboxRepository) Append(ctx context.Context, db DB, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (event_type, recipient_id, payload, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, created_at
	`

	err := db.QueryRow(
		ctx, query,
		event.EventType,
		event.RecipientID,
		event.Payload,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("append outbox event: %w", err)
	}

	event.Status = model.OutboxStatusPending
	return nil
}

// ListPending returns undelivered events, oldest first
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, recipient_id, payload, status, attempts, created_at, dispatched_at
		FROM outbox_events
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox events: %w", err)
	}
	defer rows.Close()

	var events []*model.OutboxEvent
	for rows.Next() {
		var event model.OutboxEvent
		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.RecipientID,
			&event.Payload,
			&event.Status,
			&event.Attempts,
			&event.CreatedAt,
			&event.DispatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox events: %w", err)
	}

	return events, nil
}

// MarkDispatched flags an event as delivered
func (r *OutboxRepository) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = 'dispatched', dispatched_at = now()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark outbox event dispatched: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("outbox event not found")
	}

	return nil
}

// RecordAttempt bumps the attempt counter after a failed delivery
func (r *OutboxRepository) RecordAttempt(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET attempts = attempts + 1
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("record outbox attempt: %w", err)
	}

	return nil
}
