package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tutorhive/tutorhive/internal/model"
	"github.com/tutorhive/tutorhive/internal/repository"
)

// Store interfaces implemented by internal/repository. Methods taking a
// repository.DB participate in the booking transaction.

type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	HasOverlap(ctx context.Context, tutorID uuid.UUID, start, end time.Time) (bool, error)
	ListAvailable(ctx context.Context, tutorID uuid.UUID, from time.Time, limit int) ([]*model.Slot, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID, limit int) ([]*model.Slot, error)
	ListBookedBy(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Slot, error)
	Book(ctx context.Context, db repository.DB, slotID, studentID uuid.UUID) (bool, error)
	LinkSession(ctx context.Context, db repository.DB, slotID, sessionID uuid.UUID) error
	Disable(ctx context.Context, slotID uuid.UUID) error
	Delete(ctx context.Context, slotID uuid.UUID) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, db repository.DB, session *model.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	GetTutorProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error)
	GetTutorProfileByID(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type OutboxStore interface {
	Append(ctx context.Context, db repository.DB, event *model.OutboxEvent) error
}

// TxBeginner is satisfied by *pgxpool.Pool
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
