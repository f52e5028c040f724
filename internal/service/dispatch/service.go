package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/mailer"
	"github.com/sandboxsec/awaretrack/internal/pkg/emailutil"
	"github.com/sandboxsec/awaretrack/internal/pkg/logger"
)

// TransportProvider yields the transport for one dispatch call, built
// from whatever settings are current when the call starts.
type TransportProvider interface {
	Transport(ctx context.Context) (mailer.Transport, error)
}

// TransportProviderFunc adapts a function to the TransportProvider
// interface.
type TransportProviderFunc func(ctx context.Context) (mailer.Transport, error)

func (f TransportProviderFunc) Transport(ctx context.Context) (mailer.Transport, error) {
	return f(ctx)
}

// Request is the input to one Dispatch call. Links align with
// Recipients by index; a short or absent Links slice leaves the
// remaining recipients without tracking links.
type Request struct {
	Recipients []domain.Recipient
	Campaign   string
	Template   domain.Template
	Links      []domain.TrackingLink
	Masking    *domain.LinkMasking
	From       string
	FromName   string
}

// Service runs bulk sends. Safe for concurrent use; every Dispatch
// call is independent.
type Service struct {
	provider    TransportProvider
	sendTimeout time.Duration
}

// NewService creates a dispatch service. sendTimeout bounds each
// individual send attempt.
func NewService(provider TransportProvider, sendTimeout time.Duration) *Service {
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &Service{provider: provider, sendTimeout: sendTimeout}
}

type sendResult struct {
	idx int
	err error
}

// Dispatch validates the request, probes the transport, fans out one
// send per valid recipient, and joins every outcome into a single
// report. A probe failure returns a classified error and no report;
// nothing was sent. Per-recipient failures land in the report instead.
func (s *Service) Dispatch(ctx context.Context, req Request) (*domain.DispatchReport, error) {
	if len(req.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if req.Campaign == "" {
		return nil, ErrMissingCampaign
	}
	if req.Template.Subject == "" && req.Template.Body == "" {
		return nil, ErrMissingTemplate
	}

	transport, err := s.provider.Transport(ctx)
	if err != nil {
		return nil, fmt.Errorf("building transport: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	err = transport.Verify(probeCtx)
	cancel()
	if err != nil {
		ce := mailer.Classify(err)
		log.Printf("[dispatch] connectivity probe failed (%s): %v", ce.Class, ce.Err)
		return nil, ce
	}

	attempts := make([]domain.DispatchAttempt, len(req.Recipients))
	results := make(chan sendResult, len(req.Recipients))
	launched := 0

	for i, rcpt := range req.Recipients {
		attempts[i].Recipient = rcpt
		if !emailutil.Validate(rcpt.Email) {
			attempts[i].Outcome = domain.OutcomeInvalid
			attempts[i].Error = "Invalid email format"
			continue
		}

		var link domain.TrackingLink
		if i < len(req.Links) {
			link = req.Links[i]
		}
		subject, html, err := renderEmail(req.Template, req.Campaign, rcpt, link, req.Masking)
		if err != nil {
			attempts[i].Outcome = domain.OutcomeFailed
			attempts[i].Error = err.Error()
			continue
		}

		env := mailer.Envelope{
			From:     req.From,
			FromName: req.FromName,
			To:       rcpt.Email,
			Subject:  subject,
			HTML:     html,
		}

		launched++
		go func(idx int, env mailer.Envelope) {
			sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
			defer cancel()
			results <- sendResult{idx: idx, err: transport.Send(sendCtx, env)}
		}(i, env)
	}

	// Single aggregator: only this goroutine writes outcomes for
	// launched sends, so no counter is shared between workers.
	for n := 0; n < launched; n++ {
		r := <-results
		if r.err != nil {
			attempts[r.idx].Outcome = domain.OutcomeFailed
			attempts[r.idx].Error = r.err.Error()
			logger.Warn("send attempt failed",
				"campaign", req.Campaign,
				"recipient", attempts[r.idx].Recipient.Email,
				"error", r.err)
		} else {
			attempts[r.idx].Outcome = domain.OutcomeSent
		}
	}

	report := buildReport(attempts)
	log.Printf("[dispatch] campaign=%s sent=%d failed=%d total=%d",
		req.Campaign, report.Sent, report.Failed, report.Total)
	return report, nil
}

// buildReport folds per-recipient attempts into the aggregate report,
// keeping error entries in recipient order.
func buildReport(attempts []domain.DispatchAttempt) *domain.DispatchReport {
	report := &domain.DispatchReport{Total: len(attempts)}
	for _, a := range attempts {
		switch a.Outcome {
		case domain.OutcomeSent:
			report.Sent++
		default:
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", a.Recipient.Email, a.Error))
		}
	}
	if report.Failed == 0 {
		report.Status = "completed"
	} else if report.Sent == 0 {
		report.Status = "failed"
	} else {
		report.Status = "partial"
	}
	return report
}
