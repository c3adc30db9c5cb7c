package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/validation"
	"github.com/clinic/clinic/pkg/timeofday"
)

// Cached listing paths this package invalidates after writes.
const (
	DoctorsPath      = "/api/v1/doctors"
	PatientsPath     = "/api/v1/patients"
	AppointmentsPath = "/api/v1/appointments"
	DashboardPath    = "/api/v1/dashboard"
)

var fields = validation.New()

// Invalidator drops cached GET responses for a clinic.
type Invalidator interface {
	Invalidate(ctx context.Context, clinicID uuid.UUID, paths ...string)
}

type Service struct {
	doctors  DoctorRepository
	patients PatientRepository
	cache    Invalidator
	logger   zerolog.Logger
}

func NewService(doctors DoctorRepository, patients PatientRepository, cache Invalidator, logger zerolog.Logger) *Service {
	return &Service{doctors: doctors, patients: patients, cache: cache, logger: logger}
}

// -- Doctor --

func validateDoctor(in DoctorInput) (from, to timeofday.TimeOfDay, err error) {
	if strings.TrimSpace(in.Name) == "" {
		return from, to, apperr.Validation("name is required")
	}
	if strings.TrimSpace(in.Specialty) == "" {
		return from, to, apperr.Validation("specialty is required")
	}
	if in.AppointmentPriceInCents < 1 {
		return from, to, apperr.Validation("appointment_price_in_cents must be at least 1")
	}
	if in.AvailableFromWeekday < 0 || in.AvailableFromWeekday > 6 || in.AvailableToWeekday < 0 || in.AvailableToWeekday > 6 {
		return from, to, apperr.Validation("weekdays must be between 0 and 6")
	}
	if from, err = timeofday.Parse(in.AvailableFromTime); err != nil {
		return from, to, apperr.Validation("available_from_time: %v", err)
	}
	if to, err = timeofday.Parse(in.AvailableToTime); err != nil {
		return from, to, apperr.Validation("available_to_time: %v", err)
	}
	if !from.Before(to) {
		return from, to, apperr.Validation("available_from_time must be before available_to_time")
	}
	return from, to, nil
}

// UpsertDoctor creates a doctor, or updates one when in.ID names a doctor
// of the session's clinic. Times are stored as HH:MM:SS. The appointment
// listing carries doctor names, so it is invalidated too.
func (s *Service) UpsertDoctor(ctx context.Context, sess auth.Session, in DoctorInput) (*Doctor, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, err
	}
	from, to, err := validateDoctor(in)
	if err != nil {
		return nil, err
	}

	d := &Doctor{
		ID:                      uuid.New(),
		ClinicID:                clinicID,
		Name:                    strings.TrimSpace(in.Name),
		Specialty:               strings.TrimSpace(in.Specialty),
		AvatarImageURL:          in.AvatarImageURL,
		AppointmentPriceInCents: in.AppointmentPriceInCents,
		AvailableFromWeekday:    in.AvailableFromWeekday,
		AvailableToWeekday:      in.AvailableToWeekday,
		AvailableFromTime:       from.String(),
		AvailableToTime:         to.String(),
	}
	if in.ID != nil && *in.ID != uuid.Nil {
		d.ID = *in.ID
	}

	if err := s.doctors.Upsert(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("clinic_id", clinicID.String()).Str("doctor_id", d.ID.String()).Msg("doctor saved")
	s.cache.Invalidate(ctx, clinicID, DoctorsPath, AppointmentsPath, DashboardPath)
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, sess auth.Session, id uuid.UUID) (*Doctor, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, err
	}
	return s.doctors.GetByID(ctx, clinicID, id)
}

func (s *Service) ListDoctors(ctx context.Context, sess auth.Session, limit, offset int) ([]*Doctor, int, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, 0, err
	}
	return s.doctors.List(ctx, clinicID, limit, offset)
}

// DeleteDoctor also removes the doctor's appointments (ON DELETE CASCADE).
func (s *Service) DeleteDoctor(ctx context.Context, sess auth.Session, id uuid.UUID) error {
	clinicID, err := sess.Scope()
	if err != nil {
		return err
	}
	if err := s.doctors.Delete(ctx, clinicID, id); err != nil {
		return err
	}
	s.logger.Info().Str("clinic_id", clinicID.String()).Str("doctor_id", id.String()).Msg("doctor deleted")
	s.cache.Invalidate(ctx, clinicID, DoctorsPath, AppointmentsPath, DashboardPath)
	return nil
}

// -- Patient --

func validatePatient(in PatientInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if err := fields.Var(in.Email, "required,email"); err != nil {
		return apperr.Validation("email must be a valid email")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return apperr.Validation("phone_number is required")
	}
	if !in.Sex.Valid() {
		return apperr.Validation("sex must be one of [male female]")
	}
	return nil
}

func (s *Service) UpsertPatient(ctx context.Context, sess auth.Session, in PatientInput) (*Patient, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, err
	}
	if err := validatePatient(in); err != nil {
		return nil, err
	}

	p := &Patient{
		ID:          uuid.New(),
		ClinicID:    clinicID,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Sex:         in.Sex,
	}
	if in.ID != nil && *in.ID != uuid.Nil {
		p.ID = *in.ID
	}

	if err := s.patients.Upsert(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("clinic_id", clinicID.String()).Str("patient_id", p.ID.String()).Msg("patient saved")
	s.cache.Invalidate(ctx, clinicID, PatientsPath, AppointmentsPath, DashboardPath)
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, sess auth.Session, id uuid.UUID) (*Patient, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, clinicID, id)
}

func (s *Service) ListPatients(ctx context.Context, sess auth.Session, limit, offset int) ([]*Patient, int, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, 0, err
	}
	return s.patients.List(ctx, clinicID, limit, offset)
}

func (s *Service) DeletePatient(ctx context.Context, sess auth.Session, id uuid.UUID) error {
	clinicID, err := sess.Scope()
	if err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, clinicID, id); err != nil {
		return err
	}
	s.logger.Info().Str("clinic_id", clinicID.String()).Str("patient_id", id.String()).Msg("patient deleted")
	s.cache.Invalidate(ctx, clinicID, PatientsPath, AppointmentsPath, DashboardPath)
	return nil
}
