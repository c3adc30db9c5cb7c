package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/db"
)

const patientEmailConstraint = "patients_clinic_email_key"

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const doctorCols = `id, clinic_id, name, specialty, avatar_image_url, appointment_price_in_cents,
	available_from_weekday, available_to_weekday, available_from_time::text, available_to_time::text,
	created_at, updated_at`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.ClinicID, &d.Name, &d.Specialty, &d.AvatarImageURL, &d.AppointmentPriceInCents,
		&d.AvailableFromWeekday, &d.AvailableToWeekday, &d.AvailableFromTime, &d.AvailableToTime,
		&d.CreatedAt, &d.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.ErrNotFoundOrUnauthorized
	}
	return &d, err
}

// Upsert relies on the WHERE of DO UPDATE: a conflicting id in another
// clinic updates nothing and RETURNING yields no row.
func (r *doctorRepoPG) Upsert(ctx context.Context, d *Doctor) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (id, clinic_id, name, specialty, avatar_image_url, appointment_price_in_cents,
			available_from_weekday, available_to_weekday, available_from_time, available_to_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::time,$10::time)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			specialty = EXCLUDED.specialty,
			avatar_image_url = EXCLUDED.avatar_image_url,
			appointment_price_in_cents = EXCLUDED.appointment_price_in_cents,
			available_from_weekday = EXCLUDED.available_from_weekday,
			available_to_weekday = EXCLUDED.available_to_weekday,
			available_from_time = EXCLUDED.available_from_time,
			available_to_time = EXCLUDED.available_to_time,
			updated_at = NOW()
		WHERE doctors.clinic_id = EXCLUDED.clinic_id
		RETURNING created_at, updated_at`,
		d.ID, d.ClinicID, d.Name, d.Specialty, d.AvatarImageURL, d.AppointmentPriceInCents,
		d.AvailableFromWeekday, d.AvailableToWeekday, d.AvailableFromTime, d.AvailableToTime,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if db.IsNoRows(err) {
		return apperr.ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("upsert doctor: %w", err)
	}
	return nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *doctorRepoPG) List(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors WHERE clinic_id = $1`, clinicID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE clinic_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`,
		clinicID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *doctorRepoPG) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFoundOrUnauthorized
	}
	return nil
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const patientCols = `id, clinic_id, name, email, phone_number, sex, created_at, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.ClinicID, &p.Name, &p.Email, &p.PhoneNumber, &p.Sex, &p.CreatedAt, &p.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.ErrNotFoundOrUnauthorized
	}
	return &p, err
}

func (r *patientRepoPG) Upsert(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, clinic_id, name, email, phone_number, sex)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			sex = EXCLUDED.sex,
			updated_at = NOW()
		WHERE patients.clinic_id = EXCLUDED.clinic_id
		RETURNING created_at, updated_at`,
		p.ID, p.ClinicID, p.Name, p.Email, p.PhoneNumber, string(p.Sex),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	switch {
	case db.IsNoRows(err):
		return apperr.ErrNotFoundOrUnauthorized
	case db.IsUniqueViolation(err, patientEmailConstraint):
		return apperr.Conflict("a patient with this email already exists")
	case err != nil:
		return fmt.Errorf("upsert patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *patientRepoPG) List(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE clinic_id = $1`, clinicID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients WHERE clinic_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`,
		clinicID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *patientRepoPG) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFoundOrUnauthorized
	}
	return nil
}
