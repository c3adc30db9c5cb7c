package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/db"
)

const doctorSlotConstraint = "appointments_doctor_slot_key"

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const apptCols = `id, clinic_id, patient_id, doctor_id, appointment_date_time,
	appointment_price_in_cents, created_at, updated_at`

const apptViewCols = `a.id, a.clinic_id, a.patient_id, a.doctor_id, a.appointment_date_time,
	a.appointment_price_in_cents, a.created_at, a.updated_at,
	p.name, p.email, d.name, d.specialty`

const apptViewFrom = `appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

func (r *appointmentRepoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.ClinicID, &a.PatientID, &a.DoctorID, &a.AppointmentDateTime,
		&a.AppointmentPriceInCents, &a.CreatedAt, &a.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.ErrNotFoundOrUnauthorized
	}
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, clinic_id, patient_id, doctor_id, appointment_date_time, appointment_price_in_cents)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		a.ID, a.ClinicID, a.PatientID, a.DoctorID, a.AppointmentDateTime, a.AppointmentPriceInCents,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	switch {
	case db.IsUniqueViolation(err, doctorSlotConstraint):
		return apperr.Conflict("the doctor already has an appointment at this time")
	case db.IsForeignKeyViolation(err):
		return apperr.ErrNotFoundOrUnauthorized
	case err != nil:
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Appointment, error) {
	return r.scanAppt(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *appointmentRepoPG) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFoundOrUnauthorized
	}
	return nil
}

func (r *appointmentRepoPG) ListByDoctorBetween(ctx context.Context, clinicID, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE clinic_id = $1 AND doctor_id = $2
			AND appointment_date_time >= $3 AND appointment_date_time < $4
		ORDER BY appointment_date_time`,
		clinicID, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) List(ctx context.Context, clinicID uuid.UUID, f ListFilter, limit, offset int) ([]*AppointmentView, int, error) {
	q := db.NewListQuery(apptViewFrom, apptViewCols).
		Where("a.clinic_id = $%d", clinicID).
		OrderBy("a.appointment_date_time, a.id")
	if f.DoctorID != nil {
		q.Where("a.doctor_id = $%d", *f.DoctorID)
	}
	if f.PatientID != nil {
		q.Where("a.patient_id = $%d", *f.PatientID)
	}
	if f.From != nil {
		q.Where("a.appointment_date_time >= $%d", *f.From)
	}
	if f.To != nil {
		q.Where("a.appointment_date_time < $%d", *f.To)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var items []*AppointmentView
	for rows.Next() {
		var v AppointmentView
		if err := rows.Scan(&v.ID, &v.ClinicID, &v.PatientID, &v.DoctorID, &v.AppointmentDateTime,
			&v.AppointmentPriceInCents, &v.CreatedAt, &v.UpdatedAt,
			&v.PatientName, &v.PatientEmail, &v.DoctorName, &v.DoctorSpecialty); err != nil {
			return nil, 0, err
		}
		items = append(items, &v)
	}
	return items, total, rows.Err()
}
