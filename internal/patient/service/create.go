package service

import (
	"context"
	"errors"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

// CreateResult is the tagged outcome of Create. The store write is the
// durability commit point: once it succeeds the patient exists, even when
// billing provisioning afterwards fails. ProvisioningErr carries that
// downstream failure so callers can surface it without losing the record.
type CreateResult struct {
	Patient         *models.Patient
	ProvisioningErr error
}

// ProvisioningFailed reports whether the record committed but the billing
// account was not provisioned.
func (r *CreateResult) ProvisioningFailed() bool {
	return r.ProvisioningErr != nil
}

// Create registers a new patient.
//
// Sequencing: uniqueness pre-check, store write (commit point), billing
// provisioning, creation event. The pre-check fails fast with a conflict
// before any mutation; the store's atomic check-and-insert is the
// authoritative uniqueness enforcement behind it. A provisioning failure
// after the commit point is reported through the result, never rolled back,
// and suppresses the creation event. Event publishing is best-effort and can
// never fail the operation.
func (s *Service) Create(ctx context.Context, input models.PatientInput) (*CreateResult, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Create")
	defer span.End()

	taken, err := s.patients.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email availability")
	}
	if taken {
		return nil, dErrors.New(dErrors.CodeConflict, "a patient with this email already exists")
	}

	patient := &models.Patient{
		Name:           input.Name,
		Email:          input.Email,
		Address:        input.Address,
		DateOfBirth:    input.DateOfBirth,
		RegisteredDate: input.RegisteredDate,
	}
	if err := s.patients.CreateIfEmailAvailable(ctx, patient); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a patient with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create patient")
	}
	s.incrementPatientsCreated()

	if err := s.billing.CreateAccount(ctx, patient.ID.String(), patient.Name, patient.Email); err != nil {
		// The record stays live: deleting it here could lose client-intended
		// state on a transient downstream issue. Reconciliation happens out
		// of band.
		s.logger.ErrorContext(ctx, "billing account provisioning failed after patient commit",
			"patient_id", patient.ID.String(),
			"error", err,
		)
		s.incrementProvisionFailures()
		return &CreateResult{
			Patient:         patient,
			ProvisioningErr: dErrors.Wrap(err, dErrors.CodeProvisioningFailed, "billing account provisioning failed"),
		}, nil
	}

	s.events.PatientCreated(ctx, patient)

	return &CreateResult{Patient: patient}, nil
}

func (s *Service) incrementPatientsCreated() {
	if s.metrics != nil {
		s.metrics.IncrementPatientsCreated()
	}
}

func (s *Service) incrementProvisionFailures() {
	if s.metrics != nil {
		s.metrics.IncrementProvisionFailures()
	}
}
