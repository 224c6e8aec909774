package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the patient domain.
type Metrics struct {
	PatientsCreated   prometheus.Counter
	ProvisionFailures prometheus.Counter
	PublishFailures   prometheus.Counter
}

// New creates and registers the patient metrics.
func New() *Metrics {
	return &Metrics{
		PatientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patient_service_patients_created_total",
			Help: "Total number of patient records created.",
		}),
		ProvisionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patient_service_provision_failures_total",
			Help: "Creates whose billing account provisioning failed after the record committed.",
		}),
		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patient_service_publish_failures_total",
			Help: "Patient-created events that could not be published.",
		}),
	}
}

func (m *Metrics) IncrementPatientsCreated() {
	m.PatientsCreated.Inc()
}

func (m *Metrics) IncrementProvisionFailures() {
	m.ProvisionFailures.Inc()
}

func (m *Metrics) IncrementPublishFailures() {
	m.PublishFailures.Inc()
}
