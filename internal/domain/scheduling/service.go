package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/identity"
	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/timeofday"
)

const (
	AppointmentsPath = "/api/v1/appointments"
	DashboardPath    = "/api/v1/dashboard"
)

// DoctorReader is satisfied by identity.DoctorRepository.
type DoctorReader interface {
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*identity.Doctor, error)
}

// PatientReader is satisfied by identity.PatientRepository.
type PatientReader interface {
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*identity.Patient, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context, clinicID uuid.UUID, paths ...string)
}

type Service struct {
	appointments AppointmentRepository
	doctors      DoctorReader
	patients     PatientReader
	cache        Invalidator
	loc          *time.Location
	stepMinutes  int
	logger       zerolog.Logger
	now          func() time.Time
}

// NewService builds the scheduling service. Calendar dates and wall-clock
// times are interpreted in loc; stepMinutes is the slot interval.
func NewService(appts AppointmentRepository, doctors DoctorReader, patients PatientReader, cache Invalidator,
	loc *time.Location, stepMinutes int, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if stepMinutes <= 0 {
		stepMinutes = DefaultStepMinutes
	}
	return &Service{
		appointments: appts,
		doctors:      doctors,
		patients:     patients,
		cache:        cache,
		loc:          loc,
		stepMinutes:  stepMinutes,
		logger:       logger,
		now:          time.Now,
	}
}

// Location is the zone dates are read in.
func (s *Service) Location() *time.Location { return s.loc }

// AppointmentTimestamp combines a calendar date and a time of day into the
// instant they name in loc, with seconds and nanoseconds zeroed.
func AppointmentTimestamp(date time.Time, t timeofday.TimeOfDay, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

// DayBounds returns [start, end) of the calendar day of date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseDate reads a YYYY-MM-DD calendar date in the service location.
func (s *Service) ParseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, apperr.Validation("date must match %s", DateLayout)
	}
	return d, nil
}

// -- Appointment --

// CreateAppointment books a slot. The session is checked before the input,
// and the doctor and patient must belong to the session's clinic. Instants
// before now are rejected. A second booking of the same doctor at the same
// instant fails with ErrConflict.
func (s *Service) CreateAppointment(ctx context.Context, sess auth.Session, in CreateAppointmentInput) (*Appointment, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, err
	}

	if in.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id is required")
	}
	if in.DoctorID == uuid.Nil {
		return nil, apperr.Validation("doctor_id is required")
	}
	if in.AppointmentPriceInCents < 1 {
		return nil, apperr.Validation("appointment_price_in_cents must be at least 1")
	}
	date, err := s.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	tod, err := timeofday.Parse(in.Time)
	if err != nil {
		return nil, apperr.Validation("time: %v", err)
	}
	at := AppointmentTimestamp(date, tod, s.loc)
	if at.Before(s.now()) {
		return nil, apperr.Validation("appointment must not be in the past")
	}

	if _, err := s.doctors.GetByID(ctx, clinicID, in.DoctorID); err != nil {
		return nil, err
	}
	if _, err := s.patients.GetByID(ctx, clinicID, in.PatientID); err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:                      uuid.New(),
		ClinicID:                clinicID,
		PatientID:               in.PatientID,
		DoctorID:                in.DoctorID,
		AppointmentDateTime:     at,
		AppointmentPriceInCents: in.AppointmentPriceInCents,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("clinic_id", clinicID.String()).
		Str("appointment_id", a.ID.String()).
		Str("doctor_id", a.DoctorID.String()).
		Time("at", a.AppointmentDateTime).
		Msg("appointment created")
	s.cache.Invalidate(ctx, clinicID, AppointmentsPath, DashboardPath)
	return a, nil
}

// DeleteAppointment removes an appointment of the session's clinic. Missing
// and foreign appointments fail the same way.
func (s *Service) DeleteAppointment(ctx context.Context, sess auth.Session, id uuid.UUID) error {
	clinicID, err := sess.Scope()
	if err != nil {
		return err
	}
	a, err := s.appointments.GetByID(ctx, clinicID, id)
	if err != nil {
		return err
	}
	if a.ClinicID != clinicID {
		return apperr.ErrNotFoundOrUnauthorized
	}
	if err := s.appointments.Delete(ctx, clinicID, id); err != nil {
		return err
	}

	s.logger.Info().Str("clinic_id", clinicID.String()).Str("appointment_id", id.String()).Msg("appointment deleted")
	s.cache.Invalidate(ctx, clinicID, AppointmentsPath, DashboardPath)
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, sess auth.Session, f ListFilter, limit, offset int) ([]*AppointmentView, int, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, 0, err
	}
	return s.appointments.List(ctx, clinicID, f, limit, offset)
}

// -- Slots --

// AvailableSlots lists the doctor's slots on date with booked ones marked
// unavailable. A date outside the doctor's weekdays has no slots.
func (s *Service) AvailableSlots(ctx context.Context, sess auth.Session, doctorID uuid.UUID, date time.Time) ([]Slot, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.GetByID(ctx, clinicID, doctorID)
	if err != nil {
		return nil, err
	}

	window := doctor.Availability()
	if !window.CoversWeekday(date.In(s.loc).Weekday()) {
		return []Slot{}, nil
	}
	slots := GenerateSlots(window.From, window.To, s.stepMinutes)
	if len(slots) == 0 {
		return slots, nil
	}

	start, end := DayBounds(date, s.loc)
	appts, err := s.appointments.ListByDoctorBetween(ctx, clinicID, doctorID, start, end)
	if err != nil {
		return nil, err
	}
	return ApplyOccupancy(slots, appts, doctorID, date, s.loc), nil
}
