package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                   uuid.UUID `json:"id"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	FirstName            string    `json:"firstName"`
	Surname              string    `json:"surname"`
	FullName             string    `json:"fullName"`
	Bio                  string    `json:"bio,omitempty"`
	Grade                string    `json:"grade,omitempty"`
	Subjects             []string  `json:"subjects,omitempty"`
	EducationalInstitute string    `json:"educationalInstitute,omitempty"`
	IsTutor              bool      `json:"isTutor"`
	CreatedAt            time.Time `json:"createdAt"`
}

// TutorProfile is the tutor-specific record slots hang off; it is distinct
// from the generic user identity.
type TutorProfile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
