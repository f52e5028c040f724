package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureClass
	}{
		{"deadline", context.DeadlineExceeded, ClassTimeout},
		{"smtp auth reply", &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}, ClassCredentials},
		{"smtp auth required", &textproto.Error{Code: 530, Msg: "5.7.0 Authentication Required"}, ClassCredentials},
		{"refused", errors.New("dial tcp 127.0.0.1:587: connect: connection refused"), ClassUnreachable},
		{"bad host", errors.New("dial tcp: lookup smtp.nowhere.invalid: no such host"), ClassUnreachable},
		{"aws signature", errors.New("api error SignatureDoesNotMatch: The request signature we calculated does not match"), ClassCredentials},
		{"timeout text", errors.New("dial tcp 10.0.0.1:587: i/o timeout"), ClassTimeout},
		{"other", errors.New("unexpected EOF"), ClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := Classify(tt.err)
			if ce.Class != tt.want {
				t.Errorf("Classify(%v) class = %s, want %s", tt.err, ce.Class, tt.want)
			}
			if !errors.Is(ce, tt.err) {
				t.Errorf("classified error should wrap the original")
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	orig := &ConnectivityError{Class: ClassCredentials, Err: errors.New("auth failed")}
	wrapped := fmt.Errorf("probe: %w", orig)
	if got := Classify(wrapped); got.Class != ClassCredentials {
		t.Errorf("re-classifying a ConnectivityError changed class to %s", got.Class)
	}
}

func TestSettingsConfigured(t *testing.T) {
	s := Settings{Host: "smtp.example.com", Port: 587, User: "u", Pass: "p"}
	if !s.Configured() {
		t.Error("complete settings reported unconfigured")
	}
	for _, bad := range []Settings{
		{},
		{Host: "smtp.example.com", Port: 587, User: "u"},
		{Host: "smtp.example.com", User: "u", Pass: "p"},
	} {
		if bad.Configured() {
			t.Errorf("incomplete settings %+v reported configured", bad)
		}
	}
}

func TestConfigStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email-config.json")

	store, err := NewConfigStore(path)
	if err != nil {
		t.Fatalf("NewConfigStore: %v", err)
	}
	if store.Snapshot().Configured() {
		t.Fatal("fresh store should start unconfigured")
	}

	want := Settings{Host: "smtp.example.com", Port: 465, User: "alerts@example.com", Pass: "secret", Secure: true}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewConfigStore(path)
	if err != nil {
		t.Fatalf("reloading store: %v", err)
	}
	if got := reloaded.Snapshot(); got != want {
		t.Errorf("reloaded settings = %+v, want %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "email-config.json"))
	if err != nil {
		t.Fatalf("NewConfigStore: %v", err)
	}
	first := Settings{Host: "a.example.com", Port: 587, User: "u", Pass: "p"}
	if err := store.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap := store.Snapshot()
	if err := store.Save(Settings{Host: "b.example.com", Port: 587, User: "u2", Pass: "p2"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if snap != first {
		t.Error("snapshot changed after a later save")
	}
}

func TestSMTPVerifyUnconfigured(t *testing.T) {
	tr := NewSMTPTransport(Settings{}, time.Second)
	err := tr.Verify(context.Background())
	var ce *ConnectivityError
	if !errors.As(err, &ce) {
		t.Fatalf("Verify on empty settings = %v, want ConnectivityError", err)
	}
	if ce.Class != ClassCredentials {
		t.Errorf("class = %s, want %s", ce.Class, ClassCredentials)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage(Envelope{
		From:     "it@example.com",
		FromName: "IT Security",
		To:       "user@example.com",
		Subject:  "Important Security Update",
		HTML:     "<p>hello</p>",
	}))

	for _, want := range []string{
		"From: IT Security <it@example.com>\r\n",
		"To: user@example.com\r\n",
		"Subject: Important Security Update\r\n",
		"Content-Type: text/html; charset=\"UTF-8\"\r\n",
		"\r\n<p>hello</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}
