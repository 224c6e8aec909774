// Package service holds the patient lifecycle orchestration: it sequences the
// store write against the billing provisioning call and the creation event,
// and owns the failure policy for each.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/metrics"
	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

// PatientStore is the durable record store. Implementations enforce email
// uniqueness atomically inside CreateIfEmailAvailable / UpdateIfEmailAvailable
// and report it as sentinel.ErrAlreadyUsed; the Exists* reads are
// non-authoritative fast paths.
type PatientStore interface {
	FindAll(ctx context.Context) ([]*models.Patient, error)
	FindByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcluding(ctx context.Context, email string, excluded id.PatientID) (bool, error)
	CreateIfEmailAvailable(ctx context.Context, p *models.Patient) error
	UpdateIfEmailAvailable(ctx context.Context, p *models.Patient) error
	DeleteByID(ctx context.Context, patientID id.PatientID) error
}

// BillingClient provisions a downstream billing account for a new patient.
// The call is synchronous; there is no compensation contract.
type BillingClient interface {
	CreateAccount(ctx context.Context, patientID, name, email string) error
}

// EventPublisher announces patient creation to other systems. Publishing is
// fire-and-forget: implementations absorb their own failures, which is why
// the method returns nothing.
type EventPublisher interface {
	PatientCreated(ctx context.Context, p *models.Patient)
}

// Service orchestrates the patient lifecycle. It holds no state between
// calls and is safe for concurrent use.
type Service struct {
	patients PatientStore
	billing  BillingClient
	events   EventPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a patient service.
func New(patients PatientStore, billing BillingClient, events EventPublisher, opts ...Option) *Service {
	s := &Service{
		patients: patients,
		billing:  billing,
		events:   events,
		logger:   slog.Default(),
		tracer:   otel.Tracer("patient-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every patient in store-defined order.
func (s *Service) List(ctx context.Context) ([]*models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.List")
	defer span.End()

	patients, err := s.patients.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list patients")
	}
	return patients, nil
}

// Get returns the patient with the given ID.
func (s *Service) Get(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Get")
	defer span.End()

	return s.resolve(ctx, patientID)
}
