// Package domain holds the typed identifiers shared across services.
//
// IDs are distinct uuid-backed types so a PatientID can never be passed where
// a UserID is expected. Parsing rejects empty, malformed, and nil UUIDs at the
// trust boundary.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

// PatientID identifies a patient record.
type PatientID uuid.UUID

// UserID identifies an auth-service user.
type UserID uuid.UUID

func (id PatientID) String() string { return uuid.UUID(id).String() }
func (id PatientID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// ParsePatientID parses a patient ID from its string form.
func ParsePatientID(raw string) (PatientID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return PatientID{}, err
	}
	return PatientID(parsed), nil
}

// ParseUserID parses a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}
