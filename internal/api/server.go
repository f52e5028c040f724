package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sandboxsec/awaretrack/internal/auth"
)

// Server wraps the HTTP server for the operator API.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer creates the API server. authManager may be nil to run the
// API open (local development only).
func NewServer(h *Handlers, authManager *auth.Manager, allowedOrigins []string) *Server {
	return &Server{handler: SetupRoutes(h, authManager, allowedOrigins)}
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Bulk sends hold the request open until the whole batch
		// joins, so writes get a generous ceiling.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.handler }
