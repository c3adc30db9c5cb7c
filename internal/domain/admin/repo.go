package admin

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	// Create fails with apperr.ErrConflict when the email is taken.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type ClinicRepository interface {
	Create(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	// AddMember links a user to a clinic. A user already linked to a clinic
	// gets apperr.ErrConflict.
	AddMember(ctx context.Context, userID, clinicID uuid.UUID) error
	// ClinicIDForUser returns nil, nil for a user without a clinic.
	ClinicIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}
