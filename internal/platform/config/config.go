package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr string

	// DatabaseURL selects the PostgreSQL stores; when empty the in-memory
	// stores are used instead (local development and tests).
	DatabaseURL string

	KafkaBrokers []string
	KafkaTopic   string

	BillingServiceURL string
	BillingTimeout    time.Duration

	JWTSigningKey string

	// SeedAdminEmail/SeedAdminPassword bootstrap the first admin user when
	// the user store is empty. Blank disables seeding.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("PATIENT_SERVICE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "patient.events"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	billingTimeout := 5 * time.Second
	if raw := os.Getenv("BILLING_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			billingTimeout = parsed
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              addr,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		KafkaBrokers:      brokers,
		KafkaTopic:        topic,
		BillingServiceURL: os.Getenv("BILLING_SERVICE_URL"),
		BillingTimeout:    billingTimeout,
		JWTSigningKey:     jwtSigningKey,
		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}
