package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrNotCareTeam        = errors.New("patient is not under this doctor's care")
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	List(ctx context.Context, limit, offset int) ([]*DoctorInfo, int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*PatientInfo, int, error)
	LinkDoctor(ctx context.Context, patientID, doctorID uuid.UUID) error
	IsLinked(ctx context.Context, patientID, doctorID uuid.UUID) (bool, error)
	GetHistory(ctx context.Context, patientID uuid.UUID) (*MedicalHistory, error)
	UpsertHistory(ctx context.Context, h *MedicalHistory) error
}
