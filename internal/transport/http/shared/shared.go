// Package shared centralizes JSON response writing so every handler returns
// the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Unclassified errors become 500s with a generic message so internals never
// leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, StatusFor(code), map[string]string{
		"error":   string(code),
		"message": dErrors.MessageOf(err),
	})
}

// StatusFor maps a domain error code onto an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeProvisioningFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
