// Package billing provides the clients that provision downstream billing
// accounts for newly created patients.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// accountRequest is the wire payload sent to the billing service.
type accountRequest struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// HTTPClient calls the billing service over HTTP. It implements the patient
// service's BillingClient port.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPClient creates a billing client against the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// CreateAccount provisions a billing account. The call runs to completion or
// fails; there is no partial-provisioning compensation and no retry here.
func (c *HTTPClient) CreateAccount(ctx context.Context, patientID, name, email string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(accountRequest{
		PatientID: patientID,
		Name:      name,
		Email:     email,
	})
	if err != nil {
		return fmt.Errorf("marshal billing account request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/billing-accounts", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build billing account request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call billing service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("billing service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
