package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrBadToken = errors.New("invalid token")

// Role names carried in session tokens. The server trusts the role claim
// after signature verification; it performs no further credential checks.
const (
	RoleDoctor  = "DOCTOR"
	RolePatient = "PATIENT"
)

// Principal is the authenticated actor on whose behalf an operation runs.
// Core services take it as an explicit argument rather than reading ambient
// session state.
type Principal struct {
	UserID    uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
}

// IsDoctor reports whether the principal authenticated as a doctor.
func (p Principal) IsDoctor() bool { return p.Role == RoleDoctor }

// IsPatient reports whether the principal authenticated as a patient.
func (p Principal) IsPatient() bool { return p.Role == RolePatient }

type Claims struct {
	Role      string `json:"role"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for the principal.
func IssueToken(p Principal, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		Role:      p.Role,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseToken verifies a session token and returns the principal it encodes.
func ParseToken(raw, secret string) (Principal, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return Principal{}, ErrBadToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, ErrBadToken
	}
	if claims.Role != RoleDoctor && claims.Role != RolePatient {
		return Principal{}, ErrBadToken
	}

	return Principal{
		UserID:    uid,
		Role:      claims.Role,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
