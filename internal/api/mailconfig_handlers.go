package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sandboxsec/awaretrack/internal/mailer"
	"github.com/sandboxsec/awaretrack/internal/pkg/httputil"
)

// GetMailConfig returns the current transport settings with the
// password masked.
func (h *Handlers) GetMailConfig(w http.ResponseWriter, r *http.Request) {
	s := h.mailConfig.Snapshot()
	masked := ""
	if s.Pass != "" {
		masked = "********"
	}
	httputil.OK(w, map[string]any{
		"host":       s.Host,
		"port":       s.Port,
		"user":       s.User,
		"pass":       masked,
		"secure":     s.Secure,
		"configured": s.Configured(),
	})
}

// SaveMailConfig replaces the transport settings. Takes effect for
// the next dispatch; a batch already running keeps its snapshot.
func (h *Handlers) SaveMailConfig(w http.ResponseWriter, r *http.Request) {
	var body mailer.Settings
	if !httputil.Decode(w, r, &body) {
		return
	}
	if body.Host == "" || body.Port <= 0 {
		httputil.BadRequest(w, "host and port are required")
		return
	}
	if err := h.mailConfig.Save(body); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]bool{"saved": true})
}

// TestMailConfig probes the currently saved settings without sending
// anything. Returns the failure class so the operator knows whether
// to fix credentials, the host, or just wait.
func (h *Handlers) TestMailConfig(w http.ResponseWriter, r *http.Request) {
	settings := h.mailConfig.Snapshot()
	transport := mailer.NewSMTPTransport(settings, h.mailTimeout)

	ctx, cancel := context.WithTimeout(r.Context(), h.mailTimeout)
	defer cancel()

	if err := transport.Verify(ctx); err != nil {
		var ce *mailer.ConnectivityError
		if errors.As(err, &ce) {
			httputil.JSON(w, http.StatusBadGateway, map[string]any{
				"ok":    false,
				"class": ce.Class,
				"error": ce.Reason(),
			})
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]bool{"ok": true})
}
