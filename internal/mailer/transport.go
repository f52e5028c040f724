package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
)

// Envelope is a single outbound message.
type Envelope struct {
	From     string
	FromName string
	To       string
	Subject  string
	HTML     string
}

// Transport sends email on behalf of the dispatch service.
type Transport interface {
	// Verify checks connectivity and authentication without sending
	// anything. A nil return means the transport is usable.
	Verify(ctx context.Context) error

	// Send delivers one envelope. The context bounds the attempt.
	Send(ctx context.Context, env Envelope) error
}

// FailureClass groups connection failures by their likely cause.
type FailureClass string

const (
	ClassCredentials FailureClass = "credentials"
	ClassUnreachable FailureClass = "unreachable"
	ClassTimeout     FailureClass = "timeout"
	ClassUnknown     FailureClass = "unknown"
)

// ConnectivityError wraps a transport failure with its classification.
type ConnectivityError struct {
	Class FailureClass
	Err   error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Reason returns an operator-facing message for the failure class.
func (e *ConnectivityError) Reason() string {
	switch e.Class {
	case ClassCredentials:
		return "Email authentication failed. Check your email credentials."
	case ClassTimeout:
		return "Connection to email server timed out."
	case ClassUnreachable:
		return "Could not reach the email server. Check host and port."
	default:
		return "Email server connection failed."
	}
}

// Classify wraps err in a ConnectivityError. SMTP 5xx auth replies and
// AWS signature rejections map to credentials, dial and DNS failures
// to unreachable, and deadline expiry to timeout.
func Classify(err error) *ConnectivityError {
	var ce *ConnectivityError
	if errors.As(err, &ce) {
		return ce
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ConnectivityError{Class: ClassTimeout, Err: err}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &ConnectivityError{Class: ClassTimeout, Err: err}
	}

	var terr *textproto.Error
	if errors.As(err, &terr) {
		switch terr.Code {
		case 530, 534, 535:
			return &ConnectivityError{Class: ClassCredentials, Err: err}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "authentication"),
		strings.Contains(msg, "invalid login"),
		strings.Contains(msg, "username and password not accepted"),
		strings.Contains(msg, "badcredentials"),
		strings.Contains(msg, "invalidclienttokenid"),
		strings.Contains(msg, "signaturedoesnotmatch"):
		return &ConnectivityError{Class: ClassCredentials, Err: err}
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network is unreachable"):
		return &ConnectivityError{Class: ClassUnreachable, Err: err}
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return &ConnectivityError{Class: ClassTimeout, Err: err}
	}
	return &ConnectivityError{Class: ClassUnknown, Err: err}
}
