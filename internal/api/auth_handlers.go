package api

import (
	"errors"
	"net/http"

	"github.com/sandboxsec/awaretrack/internal/auth"
	"github.com/sandboxsec/awaretrack/internal/pkg/httputil"
)

// SignIn exchanges operator credentials for a bearer token.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}

	token, op, err := h.authManager.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRateLimited):
			httputil.Error(w, http.StatusTooManyRequests, "too many failed attempts, try again later")
		case errors.Is(err, auth.ErrAccountDisabled):
			httputil.Error(w, http.StatusForbidden, "account is disabled")
		case errors.Is(err, auth.ErrInvalidCredentials):
			httputil.Unauthorized(w, "invalid email or password")
		default:
			httputil.InternalError(w, err)
		}
		return
	}

	httputil.OK(w, map[string]any{
		"token": token,
		"user":  map[string]string{"id": op.ID, "email": op.Email},
	})
}

// VerifySession confirms the presented token is still valid. Runs
// behind the auth middleware, so reaching it at all means yes.
func (h *Handlers) VerifySession(w http.ResponseWriter, r *http.Request) {
	email, _ := auth.OperatorEmail(r.Context())
	httputil.OK(w, map[string]any{"valid": true, "email": email})
}

// SignOut ends a session. Tokens are stateless, so this is a
// client-side discard acknowledged by the server.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]bool{"signed_out": true})
}
