package dispatch

import (
	"fmt"
	"strings"

	"github.com/sandboxsec/awaretrack/internal/domain"
)

// linkPlaceholder marks where the tracking link lands in a template
// body. When absent the rendered fragment is appended after the body.
const linkPlaceholder = "{{LINK_TEXT}}"

const maskedAnchorStyle = "color: #1a73e8; text-decoration: underline; font-weight: bold;"

// renderFragment builds the HTML fragment for one tracking link. With
// masking enabled the visible text is the display text and the href
// is the tracking URL; otherwise the raw URL is both.
func renderFragment(link domain.TrackingLink, masking *domain.LinkMasking) string {
	url := string(link)
	if masking != nil && masking.Enabled && masking.DisplayText != "" {
		return fmt.Sprintf(`<a href="%s" style="%s">%s</a>`, url, maskedAnchorStyle, masking.DisplayText)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, url, url)
}

// injectLink places the link fragment into the body, replacing the
// placeholder when present and appending otherwise. Without a link
// the body passes through unmodified.
func injectLink(body string, link domain.TrackingLink, masking *domain.LinkMasking) string {
	if link == "" {
		return body
	}
	fragment := renderFragment(link, masking)
	if strings.Contains(body, linkPlaceholder) {
		return strings.ReplaceAll(body, linkPlaceholder, fragment)
	}
	return body + "<br><br>" + fragment
}
