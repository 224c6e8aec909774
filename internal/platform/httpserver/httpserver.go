// Package httpserver builds the process HTTP server with conservative
// timeout defaults. Per-request deadlines are layered on top by the
// middleware chain.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the given address and root handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
