package api

import (
	"net/http"
	"time"

	"github.com/sandboxsec/awaretrack/internal/auth"
	"github.com/sandboxsec/awaretrack/internal/mailer"
	"github.com/sandboxsec/awaretrack/internal/pkg/httputil"
	"github.com/sandboxsec/awaretrack/internal/service/clickstore"
	"github.com/sandboxsec/awaretrack/internal/service/directory"
	"github.com/sandboxsec/awaretrack/internal/service/dispatch"
)

// Handlers holds the services the HTTP layer delegates to.
type Handlers struct {
	clicks      *clickstore.Service
	dispatcher  *dispatch.Service
	dir         *directory.Service
	authManager *auth.Manager
	mailConfig  *mailer.ConfigStore
	mailTimeout time.Duration
}

// NewHandlers wires the services into one handler set.
func NewHandlers(
	clicks *clickstore.Service,
	dispatcher *dispatch.Service,
	dir *directory.Service,
	authManager *auth.Manager,
	mailConfig *mailer.ConfigStore,
	mailTimeout time.Duration,
) *Handlers {
	if mailTimeout <= 0 {
		mailTimeout = 5 * time.Second
	}
	return &Handlers{
		clicks:      clicks,
		dispatcher:  dispatcher,
		dir:         dir,
		authManager: authManager,
		mailConfig:  mailConfig,
		mailTimeout: mailTimeout,
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}
