package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type StatsRepository interface {
	// AppointmentTotals sums price and counts appointments created in
	// [from, to].
	AppointmentTotals(ctx context.Context, clinicID uuid.UUID, from, to time.Time) (revenue int64, count int, err error)
	CountPatients(ctx context.Context, clinicID uuid.UUID) (int, error)
	CountDoctors(ctx context.Context, clinicID uuid.UUID) (int, error)
}
