package recommendation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type Service struct {
	recs      Repository
	directory Directory
}

func NewService(recs Repository, directory Directory) *Service {
	return &Service{recs: recs, directory: directory}
}

type CreateInput struct {
	PatientID   uuid.UUID `json:"patient_id"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
}

// Create issues a new recommendation from the calling doctor to a patient.
// It always starts ACTIVE.
func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (*Recommendation, error) {
	doctorID, err := s.directory.DoctorIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	ok, err := s.directory.PatientExists(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, fmt.Errorf("type is required")
	}

	rec := &Recommendation{
		DoctorID:    doctorID,
		PatientID:   in.PatientID,
		Type:        strings.TrimSpace(in.Type),
		Description: in.Description,
		Status:      StatusActive,
	}
	if err := s.recs.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	return s.recs.GetByID(ctx, id)
}

// SetStatus moves a recommendation to the given status. Only membership in
// the known status set is checked; any transition between valid statuses is
// allowed. An unknown status leaves the record untouched.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Recommendation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	rec, err := s.recs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == status {
		return rec, nil
	}
	return s.recs.UpdateStatus(ctx, id, status)
}

// ListForPrincipal returns the caller's recommendations, optionally filtered
// by status: those a doctor issued, or those issued to a patient.
func (s *Service) ListForPrincipal(ctx context.Context, p auth.Principal, status *Status, limit, offset int) ([]*Recommendation, int, error) {
	if status != nil && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if p.IsDoctor() {
		doctorID, err := s.directory.DoctorIDForUser(ctx, p.UserID)
		if err != nil {
			return nil, 0, err
		}
		return s.recs.ListByDoctor(ctx, doctorID, status, limit, offset)
	}
	patientID, err := s.directory.PatientIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, 0, err
	}
	return s.recs.ListByPatient(ctx, patientID, status, limit, offset)
}
