package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/model"
	"github.com/tutorhive/tutorhive/internal/service"
	"go.uber.org/zap"
)

type SlotService interface {
	CreateSlots(ctx context.Context, userID uuid.UUID, input service.CreateSlotsInput) (*service.CreateSlotsResult, error)
	ListTutorSlots(ctx context.Context, tutorID uuid.UUID) ([]*model.Slot, error)
	ListMySlots(ctx context.Context, userID uuid.UUID) ([]*model.Slot, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID) ([]*model.Slot, error)
	DisableSlot(ctx context.Context, userID, slotID uuid.UUID) error
	DeleteSlot(ctx context.Context, userID, slotID uuid.UUID) error
}

type BookingService interface {
	Book(ctx context.Context, studentID, slotID uuid.UUID, input service.BookSlotInput) (*service.BookingResult, error)
}

type SlotHandler struct {
	slots    SlotService
	bookings BookingService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSlotHandler(slots SlotService, bookings BookingService, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{
		slots:    slots,
		bookings: bookings,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateSlotsRequest struct {
	Date                string `json:"date"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	ScheduledStartIso   string `json:"scheduledStartIso"`
	ScheduledEndIso     string `json:"scheduledEndIso"`
}

type BookSlotRequest struct {
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Notes   string `json:"notes" validate:"omitempty,max=2000"`
}

// CreateSlots generates availability slots over a window
func (h *SlotHandler) CreateSlots(c *fiber.Ctx) error {
	var req CreateSlotsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}

	result, err := h.slots.CreateSlots(c.Context(), authedUserID(c), service.CreateSlotsInput{
		Date:               req.Date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		ScheduledStartIso:  req.ScheduledStartIso,
		ScheduledEndIso:    req.ScheduledEndIso,
		SlotDurationMinute: req.SlotDurationMinutes,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(result)
}

// ListTutorSlots is the public view of a tutor's bookable future slots
func (h *SlotHandler) ListTutorSlots(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("tutorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid tutor ID"})
	}

	slots, err := h.slots.ListTutorSlots(c.Context(), tutorID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(emptyIfNil(slots))
}

// ListMySlots returns all of the calling tutor's slots
func (h *SlotHandler) ListMySlots(c *fiber.Ctx) error {
	slots, err := h.slots.ListMySlots(c.Context(), authedUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(emptyIfNil(slots))
}

// ListMyBookings returns the user's booked slots with sessions attached
func (h *SlotHandler) ListMyBookings(c *fiber.Ctx) error {
	slots, err := h.slots.ListMyBookings(c.Context(), authedUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(emptyIfNil(slots))
}

// DisableSlot takes a slot out of circulation
func (h *SlotHandler) DisableSlot(c *fiber.Ctx) error {
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid slot ID"})
	}

	if err := h.slots.DisableSlot(c.Context(), authedUserID(c), slotID); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// BookSlot runs the booking transition
func (h *SlotHandler) BookSlot(c *fiber.Ctx) error {
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid slot ID"})
	}

	var req BookSlotRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input", "details": err.Error()})
	}

	result, err := h.bookings.Book(c.Context(), authedUserID(c), slotID, service.BookSlotInput{
		Subject: req.Subject,
		Notes:   req.Notes,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"session": result.Session,
		"slot":    result.Slot,
	})
}

// DeleteSlot removes an unbooked slot
func (h *SlotHandler) DeleteSlot(c *fiber.Ctx) error {
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid slot ID"})
	}

	if err := h.slots.DeleteSlot(c.Context(), authedUserID(c), slotID); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

func emptyIfNil(slots []*model.Slot) []*model.Slot {
	if slots == nil {
		return []*model.Slot{}
	}
	return slots
}
