// Package mailer provides the outbound email transports used by the
// dispatch service.
//
// Two transports are available: SMTP (direct net/smtp against a
// configured relay) and AWS SES v2. Both satisfy the Transport
// interface, so the dispatch pipeline does not care which one is
// active. Transport settings live in a ConfigStore that can be
// updated at runtime through the API; a dispatch takes a snapshot of
// the settings when it starts and keeps using that snapshot for the
// whole batch.
//
// Rules for this package:
//   - Verify must not send mail. It only proves the transport can
//     connect and authenticate.
//   - Connection failures are classified (credentials, unreachable,
//     timeout) so callers can report a precise reason instead of a
//     raw dial error.
package mailer
