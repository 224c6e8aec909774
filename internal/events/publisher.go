// Package events publishes patient lifecycle notifications to the event
// stream. Publishing is best-effort: a failed publish is a log line and a
// counter, never an error on the operation that triggered it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/metrics"
	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	"github.com/shrivathsaJoisa/patient-repository/pkg/requestcontext"
)

// Producer is the slice of the Kafka producer this package needs.
type Producer interface {
	ProduceAsync(ctx context.Context, topic string, key, value []byte, onDone func(error))
}

// KafkaPublisher announces patient creation on a Kafka topic, keyed by
// patient ID. It implements the patient service's EventPublisher port.
type KafkaPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the KafkaPublisher.
type Option func(*KafkaPublisher)

// WithLogger sets a logger for publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) { p.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *KafkaPublisher) { p.metrics = m }
}

// NewKafkaPublisher creates a publisher producing onto topic.
func NewKafkaPublisher(producer Producer, topic string, opts ...Option) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PatientCreated emits a creation event and returns immediately. Delivery
// outcome is observed on the producer callback; the request context's
// cancellation is detached so an already-answered request cannot abort the
// in-flight publish.
func (p *KafkaPublisher) PatientCreated(ctx context.Context, patient *models.Patient) {
	event := models.PatientCreated{
		EventID:   uuid.NewString(),
		PatientID: patient.ID.String(),
		Name:      patient.Name,
		Email:     patient.Email,
		Timestamp: requestcontext.Now(ctx),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.recordFailure(ctx, event.PatientID, err)
		return
	}

	p.producer.ProduceAsync(context.WithoutCancel(ctx), p.topic, []byte(event.PatientID), payload, func(err error) {
		if err != nil {
			p.recordFailure(ctx, event.PatientID, err)
		}
	})
}

func (p *KafkaPublisher) recordFailure(ctx context.Context, patientID string, err error) {
	p.logger.ErrorContext(ctx, "failed to publish patient created event",
		"patient_id", patientID,
		"topic", p.topic,
		"error", err,
	)
	if p.metrics != nil {
		p.metrics.IncrementPublishFailures()
	}
}

// LogPublisher is the no-broker fallback: it records the event in the log
// only. Used in local development when KAFKA_BROKERS is unset.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) PatientCreated(ctx context.Context, patient *models.Patient) {
	p.Logger.InfoContext(ctx, "patient created event (no broker configured)",
		"patient_id", patient.ID.String(),
		"email", patient.Email,
	)
}
