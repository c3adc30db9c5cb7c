package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) StatsRepository { return &statsRepoPG{pool: pool} }

func (r *statsRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *statsRepoPG) AppointmentTotals(ctx context.Context, clinicID uuid.UUID, from, to time.Time) (int64, int, error) {
	var revenue int64
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(appointment_price_in_cents), 0), COUNT(*)
		FROM appointments
		WHERE clinic_id = $1 AND created_at >= $2 AND created_at <= $3`,
		clinicID, from, to).Scan(&revenue, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("appointment totals: %w", err)
	}
	return revenue, count, nil
}

func (r *statsRepoPG) CountPatients(ctx context.Context, clinicID uuid.UUID) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE clinic_id = $1`, clinicID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (r *statsRepoPG) CountDoctors(ctx context.Context, clinicID uuid.UUID) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors WHERE clinic_id = $1`, clinicID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return n, nil
}
