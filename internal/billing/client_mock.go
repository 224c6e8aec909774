package billing

import (
	"context"
	"log/slog"
	"time"
)

// MockClient stands in for the billing service when no BILLING_SERVICE_URL is
// configured. It accepts every request after a configurable latency to mimic
// a real call.
type MockClient struct {
	Latency time.Duration
	Logger  *slog.Logger
}

func (c MockClient) CreateAccount(ctx context.Context, patientID, name, email string) error {
	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return ctx.Err()
	}
	if c.Logger != nil {
		c.Logger.InfoContext(ctx, "mock billing account created",
			"patient_id", patientID,
			"email", email,
		)
	}
	return nil
}
