package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

// TxRunner executes fn inside a database transaction. The context passed to
// fn carries the transaction so repository calls inside it share one unit of
// work.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	users    UserRepository
	doctors  DoctorRepository
	patients PatientRepository
	tx       TxRunner
}

func NewService(users UserRepository, doctors DoctorRepository, patients PatientRepository, tx TxRunner) *Service {
	return &Service{users: users, doctors: doctors, patients: patients, tx: tx}
}

type RegisterInput struct {
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	Specialty   string     `json:"specialty"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

func (in *RegisterInput) validate() error {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if in.Role != auth.RoleDoctor && in.Role != auth.RolePatient {
		return fmt.Errorf("role must be %s or %s", auth.RoleDoctor, auth.RolePatient)
	}
	if in.Role == auth.RoleDoctor && strings.TrimSpace(in.Specialty) == "" {
		return fmt.Errorf("specialty is required for doctors")
	}
	return nil
}

// Register creates a login and its role record in one transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		switch in.Role {
		case auth.RoleDoctor:
			return s.doctors.Create(ctx, &Doctor{UserID: u.ID, Specialty: strings.TrimSpace(in.Specialty)})
		default:
			return s.patients.Create(ctx, &Patient{UserID: u.ID, DateOfBirth: in.DateOfBirth})
		}
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks the email/password pair. It returns
// ErrInvalidCredentials for both unknown emails and bad passwords so callers
// cannot probe which emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

type HistoryInput struct {
	Conditions  *string `json:"conditions"`
	Allergies   *string `json:"allergies"`
	Medications *string `json:"medications"`
	Notes       *string `json:"notes"`
}

type CreatePatientInput struct {
	Email       string        `json:"email"`
	Password    string        `json:"password"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	DateOfBirth *time.Time    `json:"date_of_birth"`
	History     *HistoryInput `json:"history"`
}

// CreatePatient registers a patient on behalf of a doctor: the login, the
// patient record, the care-team link, and any initial history are created in
// one transaction so a failure leaves nothing behind.
func (s *Service) CreatePatient(ctx context.Context, p auth.Principal, in CreatePatientInput) (*Patient, error) {
	if !p.IsDoctor() {
		return nil, ErrDoctorNotFound
	}
	doc, err := s.doctors.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	reg := RegisterInput{
		Email:       in.Email,
		Password:    in.Password,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Role:        auth.RolePatient,
		DateOfBirth: in.DateOfBirth,
	}
	if err := reg.validate(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	patient := &Patient{DateOfBirth: in.DateOfBirth}
	err = s.tx(ctx, func(ctx context.Context) error {
		u := &User{
			Email:        reg.Email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(reg.FirstName),
			LastName:     strings.TrimSpace(reg.LastName),
			Role:         auth.RolePatient,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		patient.UserID = u.ID
		if err := s.patients.Create(ctx, patient); err != nil {
			return err
		}
		if err := s.patients.LinkDoctor(ctx, patient.ID, doc.ID); err != nil {
			return err
		}
		if in.History != nil {
			return s.patients.UpsertHistory(ctx, &MedicalHistory{
				PatientID:   patient.ID,
				Conditions:  in.History.Conditions,
				Allergies:   in.History.Allergies,
				Medications: in.History.Medications,
				Notes:       in.History.Notes,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorInfo, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// ListPatients returns the patients under the calling doctor's care.
func (s *Service) ListPatients(ctx context.Context, p auth.Principal, limit, offset int) ([]*PatientInfo, int, error) {
	doc, err := s.doctors.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, 0, err
	}
	return s.patients.ListByDoctor(ctx, doc.ID, limit, offset)
}

// History returns the medical history for a patient. Doctors may only read
// histories of patients linked to them; patients may only read their own.
// A patient with no recorded history yields an empty record, not an error.
func (s *Service) History(ctx context.Context, p auth.Principal, patientID uuid.UUID) (*MedicalHistory, error) {
	if err := s.authorizeHistoryAccess(ctx, p, patientID); err != nil {
		return nil, err
	}
	h, err := s.patients.GetHistory(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = &MedicalHistory{PatientID: patientID}
	}
	return h, nil
}

// UpdateHistory writes the medical history for a patient. Only a doctor on
// the patient's care team may write.
func (s *Service) UpdateHistory(ctx context.Context, p auth.Principal, patientID uuid.UUID, in HistoryInput) (*MedicalHistory, error) {
	if !p.IsDoctor() {
		return nil, ErrNotCareTeam
	}
	if err := s.authorizeHistoryAccess(ctx, p, patientID); err != nil {
		return nil, err
	}
	h := &MedicalHistory{
		PatientID:   patientID,
		Conditions:  in.Conditions,
		Allergies:   in.Allergies,
		Medications: in.Medications,
		Notes:       in.Notes,
	}
	if err := s.patients.UpsertHistory(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) authorizeHistoryAccess(ctx context.Context, p auth.Principal, patientID uuid.UUID) error {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return err
	}
	if p.IsPatient() {
		own, err := s.patients.GetByUserID(ctx, p.UserID)
		if err != nil {
			return err
		}
		if own.ID != patientID {
			return ErrPatientNotFound
		}
		return nil
	}
	doc, err := s.doctors.GetByUserID(ctx, p.UserID)
	if err != nil {
		return err
	}
	linked, err := s.patients.IsLinked(ctx, patientID, doc.ID)
	if err != nil {
		return err
	}
	if !linked {
		return ErrNotCareTeam
	}
	return nil
}
