// Package auth issues and verifies operator sessions.
//
// Sign-in exchanges email and password for a signed JWT; API routes
// require the token as a bearer credential. Failed attempts are rate
// limited per account through Redis so a credential-stuffing run
// cannot hammer the password hash comparison.
package auth
