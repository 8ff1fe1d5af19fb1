package identity

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the app_user table. One row per login; the role decides
// whether a doctor or patient record hangs off it.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Doctor maps to the doctor table.
type Doctor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Specialty string    `db:"specialty" json:"specialty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DoctorInfo is the listing view of a doctor, joined with the user profile.
// It backs the booking form's doctor picker.
type DoctorInfo struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Specialty string    `json:"specialty"`
}

// Patient maps to the patient table.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PatientInfo is the listing view of a patient under a doctor's care.
type PatientInfo struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// MedicalHistory maps to the medical_history table; at most one row per
// patient.
type MedicalHistory struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	Conditions  *string   `db:"conditions" json:"conditions,omitempty"`
	Allergies   *string   `db:"allergies" json:"allergies,omitempty"`
	Medications *string   `db:"medications" json:"medications,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PatientDoctor records the care relationship between a patient and a
// doctor. Rows are created when a doctor registers a patient and are never
// removed by this service.
type PatientDoctor struct {
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
