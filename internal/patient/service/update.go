package service

import (
	"context"
	"errors"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

// Update overwrites name, email, address and date of birth of a live patient.
// The registered date stays as stored. No billing call and no event: the
// downstream side effects belong to creation only.
func (s *Service) Update(ctx context.Context, patientID id.PatientID, input models.PatientInput) (*models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Update")
	defer span.End()

	patient, err := s.resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}

	taken, err := s.patients.ExistsByEmailExcluding(ctx, input.Email, patientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email availability")
	}
	if taken {
		return nil, dErrors.New(dErrors.CodeConflict, "a patient with this email already exists")
	}

	patient.Name = input.Name
	patient.Email = input.Email
	patient.Address = input.Address
	patient.DateOfBirth = input.DateOfBirth

	if err := s.patients.UpdateIfEmailAvailable(ctx, patient); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeConflict, "a patient with this email already exists")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "patient not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update patient")
		}
	}

	return patient, nil
}

func (s *Service) resolve(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "patient not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lookup patient")
	}
	return patient, nil
}
