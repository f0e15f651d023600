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

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, requesterID, userID uuid.UUID, input service.UpdateProfileInput) (*model.User, error)
}

type UserHandler struct {
	users    UserService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

type UpdateProfileRequest struct {
	FirstName            *string  `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	Surname              *string  `json:"surname,omitempty" validate:"omitempty,min=1,max=100"`
	Bio                  *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Grade                *string  `json:"grade,omitempty" validate:"omitempty,max=50"`
	Subjects             []string `json:"subjects,omitempty" validate:"omitempty,dive,max=100"`
	EducationalInstitute *string  `json:"educationalInstitute,omitempty" validate:"omitempty,max=200"`
}

// GetProfile returns a user profile; the password hash never serializes
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	user, err := h.users.GetProfile(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(user)
}

// UpdateProfile updates the caller's own profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input", "details": err.Error()})
	}

	user, err := h.users.UpdateProfile(c.Context(), authedUserID(c), userID, service.UpdateProfileInput{
		FirstName:            req.FirstName,
		Surname:              req.Surname,
		Bio:                  req.Bio,
		Grade:                req.Grade,
		Subjects:             req.Subjects,
		EducationalInstitute: req.EducationalInstitute,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(user)
}
