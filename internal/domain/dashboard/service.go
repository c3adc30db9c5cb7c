package dashboard

import (
	"context"
	"time"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
)

type Service struct {
	stats StatsRepository
	loc   *time.Location
	now   func() time.Time
}

func NewService(stats StatsRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{stats: stats, loc: loc, now: time.Now}
}

// DefaultRange is today's start through the same instant one month later.
func (s *Service) DefaultRange() (time.Time, time.Time) {
	y, m, d := s.now().In(s.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 1, 0)
}

func (s *Service) ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, s.loc)
	if err != nil {
		return time.Time{}, apperr.Validation("dates must match 2006-01-02")
	}
	return t, nil
}

// Stats computes the dashboard for the session's clinic. Zero bounds take
// the DefaultRange values.
func (s *Service) Stats(ctx context.Context, sess auth.Session, from, to time.Time) (*Stats, error) {
	clinicID, err := sess.Scope()
	if err != nil {
		return nil, err
	}
	defFrom, defTo := s.DefaultRange()
	if from.IsZero() {
		from = defFrom
	}
	if to.IsZero() {
		to = defTo
	}
	if to.Before(from) {
		return nil, apperr.Validation("to must not be before from")
	}

	revenue, count, err := s.stats.AppointmentTotals(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	patients, err := s.stats.CountPatients(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	doctors, err := s.stats.CountDoctors(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		From:                from,
		To:                  to,
		TotalRevenueInCents: revenue,
		TotalAppointments:   count,
		TotalPatients:       patients,
		TotalDoctors:        doctors,
	}, nil
}
