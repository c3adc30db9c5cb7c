package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AppointmentRepository reads and writes appointments of one clinic at a
// time. Rows of another clinic look missing.
type AppointmentRepository interface {
	// Create fails with apperr.ErrConflict when the doctor already has an
	// appointment at the same instant.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Appointment, error)
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
	// ListByDoctorBetween returns the doctor's appointments in [from, to).
	ListByDoctorBetween(ctx context.Context, clinicID, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error)
	List(ctx context.Context, clinicID uuid.UUID, f ListFilter, limit, offset int) ([]*AppointmentView, int, error)
}
