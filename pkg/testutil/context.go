package testutil

import (
	"net/http"
	"time"

	"github.com/shrivathsaJoisa/patient-repository/pkg/requestcontext"
)

// WithAuth simulates what the auth middleware would do for an authenticated
// request: it injects the principal and role into the request context.
func WithAuth(req *http.Request, subject, role string) *http.Request {
	ctx := requestcontext.WithSubject(req.Context(), subject)
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithTime pins the request-scoped time, so validation against "now" is
// deterministic.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
