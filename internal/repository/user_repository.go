package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorhive/tutorhive/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, surname, full_name, bio, grade, subjects, educational_institute, is_tutor, created_at`

func (r *UserRepository) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.Surname,
		&user.FullName,
		&user.Bio,
		&user.Grade,
		&user.Subjects,
		&user.EducationalInstitute,
		&user.IsTutor,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// UpdateProfile writes the mutable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET first_name = $1, surname = $2, full_name = $3, bio = $4,
		    grade = $5, subjects = $6, educational_institute = $7
		WHERE id = $8
	`

	result, err := r.pool.Exec(
		ctx, query,
		user.FirstName,
		user.Surname,
		user.FullName,
		user.Bio,
		user.Grade,
		user.Subjects,
		user.EducationalInstitute,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// GetTutorProfileByUserID fetches the tutor profile linked to a user
func (r *UserRepository) GetTutorProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	query := `
		SELECT id, user_id, created_at
		FROM tutor_profiles
		WHERE user_id = $1
	`

	var profile model.TutorProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(&profile.ID, &profile.UserID, &profile.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor profile by user: %w", err)
	}

	return &profile, nil
}

// GetTutorProfileByID fetches a tutor profile by its own ID
func (r *UserRepository) GetTutorProfileByID(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	query := `
		SELECT id, user_id, created_at
		FROM tutor_profiles
		WHERE id = $1
	`

	var profile model.TutorProfile
	err := r.pool.QueryRow(ctx, query, id).Scan(&profile.ID, &profile.UserID, &profile.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor profile by id: %w", err)
	}

	return &profile, nil
}
