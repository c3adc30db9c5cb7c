package identity

import (
	"context"

	"github.com/google/uuid"
)

// Every method is scoped to a clinic. Rows owned by another clinic behave
// exactly like missing rows and yield apperr.ErrNotFoundOrUnauthorized.

type DoctorRepository interface {
	// Upsert inserts d or updates the row with d.ID when it belongs to
	// d.ClinicID.
	Upsert(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Doctor, error)
	List(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Doctor, int, error)
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}

type PatientRepository interface {
	Upsert(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Patient, int, error)
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}
