package service

import "errors"

// Common errors surfaced to the API layer, which maps them to HTTP statuses.
// ErrUserNotFound means the requester's own identity did not resolve (401);
// ErrProfileNotFound means the requested profile does not exist (404).
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrNotATutor            = errors.New("user is not a tutor")
	ErrTutorProfileNotFound = errors.New("tutor profile not found")
	ErrSlotNotFound         = errors.New("slot not found")
	ErrNotSlotOwner         = errors.New("slot does not belong to tutor")
	ErrSlotNotAvailable     = errors.New("slot not available")
	ErrSlotBooked           = errors.New("cannot delete booked slot")
	ErrNotProfileOwner      = errors.New("cannot modify another user's profile")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidInput         = errors.New("invalid input")
)
