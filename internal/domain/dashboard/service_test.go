package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type mockRepo struct {
	doctorID    uuid.UUID
	doctorUser  uuid.UUID
	patientID   uuid.UUID
	patientUser uuid.UUID

	doctorStats  *DoctorStats
	patientStats *PatientStats
	recent       []*RecentPatient

	statsNow  time.Time
	recentCap int
}

func (m *mockRepo) DoctorStats(_ context.Context, doctorID uuid.UUID, now time.Time) (*DoctorStats, error) {
	if doctorID != m.doctorID {
		return nil, ErrDoctorNotFound
	}
	m.statsNow = now
	return m.doctorStats, nil
}

func (m *mockRepo) PatientStats(_ context.Context, patientID uuid.UUID, now time.Time) (*PatientStats, error) {
	if patientID != m.patientID {
		return nil, ErrPatientNotFound
	}
	m.statsNow = now
	return m.patientStats, nil
}

func (m *mockRepo) RecentPatients(_ context.Context, doctorID uuid.UUID, now time.Time, limit int) ([]*RecentPatient, error) {
	m.recentCap = limit
	items := m.recent
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *mockRepo) DoctorIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if userID != m.doctorUser {
		return uuid.Nil, ErrDoctorNotFound
	}
	return m.doctorID, nil
}

func (m *mockRepo) PatientIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if userID != m.patientUser {
		return uuid.Nil, ErrPatientNotFound
	}
	return m.patientID, nil
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		doctorID:     uuid.New(),
		doctorUser:   uuid.New(),
		patientID:    uuid.New(),
		patientUser:  uuid.New(),
		doctorStats:  &DoctorStats{AppointmentsToday: 3, AppointmentsThisWeek: 12, PendingAppointments: 2, TotalPatients: 40},
		patientStats: &PatientStats{UpcomingAppointments: 1, ActiveRecommendations: 2, TotalAppointments: 9},
	}
}

func TestDoctorDashboard(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := auth.Principal{UserID: repo.doctorUser, Role: auth.RoleDoctor}

	stats, err := svc.DoctorDashboard(context.Background(), p)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.AppointmentsToday != 3 || stats.TotalPatients != 40 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestDoctorDashboard_UnknownUser(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := auth.Principal{UserID: uuid.New(), Role: auth.RoleDoctor}

	if _, err := svc.DoctorDashboard(context.Background(), p); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestPatientDashboard(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := auth.Principal{UserID: repo.patientUser, Role: auth.RolePatient}

	stats, err := svc.PatientDashboard(context.Background(), p)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.ActiveRecommendations != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRecentPatients_CapsAtFive(t *testing.T) {
	repo := newMockRepo()
	for i := 0; i < 8; i++ {
		repo.recent = append(repo.recent, &RecentPatient{PatientID: uuid.New()})
	}
	svc := NewService(repo)
	p := auth.Principal{UserID: repo.doctorUser, Role: auth.RoleDoctor}

	items, err := svc.RecentPatients(context.Background(), p)
	if err != nil {
		t.Fatalf("recent patients: %v", err)
	}
	if repo.recentCap != recentPatientsLimit {
		t.Errorf("expected limit %d requested, got %d", recentPatientsLimit, repo.recentCap)
	}
	if len(items) != recentPatientsLimit {
		t.Errorf("expected %d items, got %d", recentPatientsLimit, len(items))
	}
}
