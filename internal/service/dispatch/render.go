package dispatch

import (
	"fmt"

	"github.com/osteele/liquid"

	"github.com/sandboxsec/awaretrack/internal/domain"
)

// Defaults used when the caller supplies an empty template.
const (
	defaultSubject = "Important Security Update"
	defaultBody    = "Please review the attached security information."
)

var liquidEngine = liquid.NewEngine()

// renderEmail produces the personalized subject and HTML body for one
// recipient. The tracking link is injected before template rendering
// so personalization tags inside the surrounding copy still apply.
func renderEmail(tmpl domain.Template, campaign string, rcpt domain.Recipient, link domain.TrackingLink, masking *domain.LinkMasking) (subject, html string, err error) {
	subjectSrc := tmpl.Subject
	if subjectSrc == "" {
		subjectSrc = defaultSubject
	}
	bodySrc := tmpl.Body
	if bodySrc == "" {
		bodySrc = defaultBody
	}
	bodySrc = injectLink(bodySrc, link, masking)

	name := rcpt.Name
	if name == "" {
		name = rcpt.Email
	}
	bindings := map[string]interface{}{
		"name":     name,
		"email":    rcpt.Email,
		"campaign": campaign,
	}

	subject, err = liquidEngine.ParseAndRenderString(subjectSrc, bindings)
	if err != nil {
		return "", "", fmt.Errorf("rendering subject: %w", err)
	}
	body, err := liquidEngine.ParseAndRenderString(bodySrc, bindings)
	if err != nil {
		return "", "", fmt.Errorf("rendering body: %w", err)
	}

	html = fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #202124;">
<p>Dear %s,</p>
<div>%s</div>
<p style="color: #5f6368; font-size: 12px; margin-top: 24px;">Campaign: %s</p>
</body></html>`, name, body, campaign)
	return subject, html, nil
}
