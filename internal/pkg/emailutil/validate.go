// Package emailutil holds small helpers for working with recipient
// addresses.
package emailutil

import "strings"

// Validate performs basic address-shape validation: one @, non-empty
// local and domain parts within RFC length limits, and a dotted
// domain. It is deliberately loose; the transport has the final say.
func Validate(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) < 3 || len(email) > 254 {
		return false
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}

	local, domain := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 {
		return false
	}
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}
	return strings.Contains(domain, ".")
}
