// Package httptransport composes the HTTP surface of the service.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar is implemented by domain handlers that attach their own routes
// and middleware chains.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter mounts the domain handlers plus the health and metrics
// endpoints. Health and metrics stay outside the auth and logging chains.
func NewRouter(handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
