package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPTransport talks to a configured SMTP relay. Port 465 uses
// implicit TLS; other ports start plain and upgrade with STARTTLS
// when the server offers it.
type SMTPTransport struct {
	settings Settings
	timeout  time.Duration
}

// NewSMTPTransport builds a transport for one settings snapshot.
func NewSMTPTransport(settings Settings, timeout time.Duration) *SMTPTransport {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SMTPTransport{settings: settings, timeout: timeout}
}

func (t *SMTPTransport) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: t.settings.Host}
}

// connect dials the relay, upgrades to TLS as needed, and
// authenticates. The caller owns the returned client.
func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", t.settings.Addr())
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(deadline)

	if t.settings.Port == 465 || t.settings.Secure {
		conn = tls.Client(conn, t.tlsConfig())
	}

	c, err := smtp.NewClient(conn, t.settings.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if t.settings.Port != 465 && !t.settings.Secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(t.tlsConfig()); err != nil {
				c.Close()
				return nil, err
			}
		}
	}

	auth := smtp.PlainAuth("", t.settings.User, t.settings.Pass, t.settings.Host)
	if err := c.Auth(auth); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Verify connects and authenticates, then quits without sending.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	if !t.settings.Configured() {
		return &ConnectivityError{Class: ClassCredentials, Err: fmt.Errorf("smtp settings incomplete")}
	}
	c, err := t.connect(ctx)
	if err != nil {
		return Classify(err)
	}
	defer c.Close()
	return c.Quit()
}

// Send delivers one envelope over a fresh connection.
func (t *SMTPTransport) Send(ctx context.Context, env Envelope) error {
	c, err := t.connect(ctx)
	if err != nil {
		return Classify(err)
	}
	defer c.Close()

	if err := c.Mail(env.From); err != nil {
		return err
	}
	if err := c.Rcpt(env.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(env)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(env Envelope) []byte {
	from := env.From
	if env.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", env.FromName), env.From)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", env.To))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", env.Subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(env.HTML)
	return []byte(msg.String())
}
