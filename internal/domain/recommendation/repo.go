package recommendation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Recommendation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Recommendation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Recommendation, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, status *Status, limit, offset int) ([]*Recommendation, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, status *Status, limit, offset int) ([]*Recommendation, int, error)
}

// Directory resolves doctor and patient records for the caller.
type Directory interface {
	DoctorExists(ctx context.Context, doctorID uuid.UUID) (bool, error)
	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)
	DoctorIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	PatientIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}
