package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
)

type mockStatsRepo struct {
	clinicID     uuid.UUID
	from, to     time.Time
	revenue      int64
	appointments int
	patients     int
	doctors      int
	err          error
}

func (m *mockStatsRepo) AppointmentTotals(_ context.Context, clinicID uuid.UUID, from, to time.Time) (int64, int, error) {
	m.clinicID, m.from, m.to = clinicID, from, to
	return m.revenue, m.appointments, m.err
}

func (m *mockStatsRepo) CountPatients(_ context.Context, _ uuid.UUID) (int, error) {
	return m.patients, nil
}

func (m *mockStatsRepo) CountDoctors(_ context.Context, _ uuid.UUID) (int, error) {
	return m.doctors, nil
}

func newTestService(repo *mockStatsRepo) *Service {
	svc := NewService(repo, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC) }
	return svc
}

func clinicSession() auth.Session {
	id := uuid.New()
	return auth.Session{UserID: uuid.New(), ClinicID: &id}
}

func TestStats(t *testing.T) {
	repo := &mockStatsRepo{revenue: 45000, appointments: 3, patients: 7, doctors: 2}
	svc := newTestService(repo)
	sess := clinicSession()

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	stats, err := svc.Stats(context.Background(), sess, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalRevenueInCents != 45000 || stats.TotalAppointments != 3 {
		t.Errorf("unexpected totals %+v", stats)
	}
	if stats.TotalPatients != 7 || stats.TotalDoctors != 2 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if repo.clinicID != *sess.ClinicID {
		t.Error("expected query scoped to session clinic")
	}
	if !repo.from.Equal(from) || !repo.to.Equal(to) {
		t.Errorf("range not passed through: %s..%s", repo.from, repo.to)
	}
}

func TestStats_DefaultRange(t *testing.T) {
	repo := &mockStatsRepo{}
	svc := newTestService(repo)

	if _, err := svc.Stats(context.Background(), clinicSession(), time.Time{}, time.Time{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantFrom := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	if !repo.from.Equal(wantFrom) || !repo.to.Equal(wantTo) {
		t.Errorf("expected %s..%s, got %s..%s", wantFrom, wantTo, repo.from, repo.to)
	}
}

func TestStats_InvertedRange(t *testing.T) {
	svc := newTestService(&mockStatsRepo{})
	from := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Stats(context.Background(), clinicSession(), from, to)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestStats_Session(t *testing.T) {
	svc := newTestService(&mockStatsRepo{})
	if _, err := svc.Stats(context.Background(), auth.Session{}, time.Time{}, time.Time{}); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Stats(context.Background(), auth.Session{UserID: uuid.New()}, time.Time{}, time.Time{}); !errors.Is(err, apperr.ErrClinicNotFound) {
		t.Errorf("expected ErrClinicNotFound, got %v", err)
	}
}

func TestStats_RepoError(t *testing.T) {
	svc := newTestService(&mockStatsRepo{err: errors.New("db down")})
	if _, err := svc.Stats(context.Background(), clinicSession(), time.Time{}, time.Time{}); err == nil {
		t.Error("expected error")
	}
}
