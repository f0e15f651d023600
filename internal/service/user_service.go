package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tutorhive/tutorhive/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserStore
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// GetProfile fetches a user profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrProfileNotFound
	}

	return user, nil
}

// UpdateProfileInput uses pointers to distinguish "leave unchanged" from
// "set to empty"
type UpdateProfileInput struct {
	FirstName            *string
	Surname              *string
	Bio                  *string
	Grade                *string
	Subjects             []string
	EducationalInstitute *string
}

// UpdateProfile applies the supplied fields to the requester's own profile
func (s *UserService) UpdateProfile(ctx context.Context, requesterID, userID uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	if requesterID != userID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrProfileNotFound
	}

	// Empty name strings are ignored rather than applied: a blank first name
	// or surname would corrupt the recomputed full name
	if input.FirstName != nil && *input.FirstName != "" {
		user.FirstName = *input.FirstName
	}
	if input.Surname != nil && *input.Surname != "" {
		user.Surname = *input.Surname
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Grade != nil {
		user.Grade = *input.Grade
	}
	if input.Subjects != nil {
		user.Subjects = input.Subjects
	}
	if input.EducationalInstitute != nil {
		user.EducationalInstitute = *input.EducationalInstitute
	}

	if input.FirstName != nil || input.Surname != nil {
		user.FullName = strings.TrimSpace(user.FirstName + " " + user.Surname)
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("User profile updated", zap.String("user_id", userID.String()))

	return user, nil
}
