package service

import (
	"context"
	"errors"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

// Delete removes a live patient and returns its last known state as a
// tombstone view for the response. No billing deprovisioning and no event:
// the downstream side effects belong to creation only.
func (s *Service) Delete(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Delete")
	defer span.End()

	patient, err := s.resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if err := s.patients.DeleteByID(ctx, patientID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "patient not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete patient")
	}

	return patient, nil
}
