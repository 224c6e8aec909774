package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

// DateLayout is the wire format for the two calendar dates on a patient.
const DateLayout = "2006-01-02"

// Patient is the managed record. Invariants:
//   - ID is assigned once by the store at creation and never changes
//   - Email is unique across all live patients (case-sensitive, exact match)
//   - DateOfBirth is strictly before the record's creation time
type Patient struct {
	ID             id.PatientID
	Name           string
	Email          string
	Address        string
	DateOfBirth    time.Time
	RegisteredDate time.Time
}

// PatientInput is the normalized, validated input the service consumes. It is
// produced by PatientRequest.Validate; the service trusts its fields are
// well-formed and only re-checks the cross-entity uniqueness invariant.
type PatientInput struct {
	Name           string
	Email          string
	Address        string
	DateOfBirth    time.Time
	RegisteredDate time.Time
}

// PatientRequest is the raw HTTP request body. Dates arrive as strings in
// DateLayout form and are parsed during validation.
type PatientRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"dateOfBirth"`
	RegisteredDate string `json:"registeredDate"`
}

// Validate normalizes and validates the request, producing a PatientInput.
// now anchors the date-of-birth-in-the-past check.
func (r PatientRequest) Validate(now time.Time) (PatientInput, error) {
	input := PatientInput{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Address: strings.TrimSpace(r.Address),
	}

	if input.Name == "" {
		return PatientInput{}, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if input.Email == "" {
		return PatientInput{}, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if !govalidator.IsEmail(input.Email) {
		return PatientInput{}, dErrors.New(dErrors.CodeBadRequest, "email is not valid")
	}
	if input.Address == "" {
		return PatientInput{}, dErrors.New(dErrors.CodeBadRequest, "address is required")
	}

	dob, err := time.Parse(DateLayout, r.DateOfBirth)
	if err != nil {
		return PatientInput{}, dErrors.New(dErrors.CodeBadRequest, "dateOfBirth must be a valid date (YYYY-MM-DD)")
	}
	if !dob.Before(now) {
		return PatientInput{}, dErrors.New(dErrors.CodeBadRequest, "dateOfBirth must be in the past")
	}
	input.DateOfBirth = dob

	registered, err := time.Parse(DateLayout, r.RegisteredDate)
	if err != nil {
		return PatientInput{}, dErrors.New(dErrors.CodeBadRequest, "registeredDate must be a valid date (YYYY-MM-DD)")
	}
	input.RegisteredDate = registered

	return input, nil
}

// PatientResponse is the HTTP representation of a patient.
type PatientResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"dateOfBirth"`
	RegisteredDate string `json:"registeredDate"`
}

// ToResponse maps a patient onto its HTTP representation.
func ToResponse(p *Patient) PatientResponse {
	return PatientResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Email:          p.Email,
		Address:        p.Address,
		DateOfBirth:    p.DateOfBirth.Format(DateLayout),
		RegisteredDate: p.RegisteredDate.Format(DateLayout),
	}
}
