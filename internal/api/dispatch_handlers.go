package api

import (
	"errors"
	"net/http"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/mailer"
	"github.com/sandboxsec/awaretrack/internal/pkg/httputil"
	"github.com/sandboxsec/awaretrack/internal/service/dispatch"
)

type sendEmailsRequest struct {
	Recipients []domain.Recipient    `json:"recipients"`
	Campaign   string                `json:"campaign"`
	Template   domain.Template       `json:"template"`
	Links      []domain.TrackingLink `json:"links,omitempty"`
	Masking    *domain.LinkMasking   `json:"masking,omitempty"`
	From       string                `json:"from"`
	FromName   string                `json:"fromName"`
}

// SendEmails runs one bulk dispatch and returns the aggregate report.
func (h *Handlers) SendEmails(w http.ResponseWriter, r *http.Request) {
	var body sendEmailsRequest
	if !httputil.Decode(w, r, &body) {
		return
	}

	report, err := h.dispatcher.Dispatch(r.Context(), dispatch.Request{
		Recipients: body.Recipients,
		Campaign:   body.Campaign,
		Template:   body.Template,
		Links:      body.Links,
		Masking:    body.Masking,
		From:       body.From,
		FromName:   body.FromName,
	})
	if err != nil {
		var ce *mailer.ConnectivityError
		switch {
		case errors.As(err, &ce):
			httputil.JSON(w, http.StatusBadGateway, httputil.ErrorResponse{
				Error: ce.Reason(),
				Code:  string(ce.Class),
			})
		case errors.Is(err, dispatch.ErrNoRecipients),
			errors.Is(err, dispatch.ErrMissingCampaign),
			errors.Is(err, dispatch.ErrMissingTemplate):
			httputil.BadRequest(w, err.Error())
		default:
			httputil.InternalError(w, err)
		}
		return
	}
	httputil.OK(w, report)
}
