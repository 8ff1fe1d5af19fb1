package dashboard

import (
	"context"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

const recentPatientsLimit = 5

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) DoctorDashboard(ctx context.Context, p auth.Principal) (*DoctorStats, error) {
	doctorID, err := s.repo.DoctorIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.DoctorStats(ctx, doctorID, s.now())
}

func (s *Service) PatientDashboard(ctx context.Context, p auth.Principal) (*PatientStats, error) {
	patientID, err := s.repo.PatientIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.PatientStats(ctx, patientID, s.now())
}

func (s *Service) RecentPatients(ctx context.Context, p auth.Principal) ([]*RecentPatient, error) {
	doctorID, err := s.repo.DoctorIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.RecentPatients(ctx, doctorID, s.now(), recentPatientsLimit)
}
