package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sandboxsec/awaretrack/internal/domain"
)

type memUserRepo struct {
	users      map[string]*domain.Operator
	lastLogins map[string]int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.Operator), lastLogins: make(map[string]int)}
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.Operator, error) {
	op, ok := m.users[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	cp := *op
	return &cp, nil
}

func (m *memUserRepo) TouchLastLogin(_ context.Context, id string) error {
	m.lastLogins[id]++
	return nil
}

func (m *memUserRepo) add(t *testing.T, email, password string, active bool) {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	m.users[email] = &domain.Operator{
		ID: "op-" + email, Email: email, PasswordHash: hash, IsActive: active,
	}
}

func TestSignIn(t *testing.T) {
	repo := newMemUserRepo()
	repo.add(t, "admin@example.com", "hunter2", true)
	mgr := NewManager(repo, nil, "test-secret", time.Hour)
	ctx := context.Background()

	token, op, err := mgr.SignIn(ctx, "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if op.Email != "admin@example.com" {
		t.Errorf("operator email = %s", op.Email)
	}
	if repo.lastLogins["op-admin@example.com"] != 1 {
		t.Error("last_login not touched")
	}

	email, err := mgr.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("token email = %s", email)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	repo := newMemUserRepo()
	repo.add(t, "admin@example.com", "hunter2", true)
	mgr := NewManager(repo, nil, "test-secret", time.Hour)
	ctx := context.Background()

	cases := []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"nobody@example.com", "hunter2"},
		{"", ""},
	}
	for _, c := range cases {
		if _, _, err := mgr.SignIn(ctx, c.email, c.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("SignIn(%q, %q) = %v, want ErrInvalidCredentials", c.email, c.password, err)
		}
	}
}

func TestSignInDisabledAccount(t *testing.T) {
	repo := newMemUserRepo()
	repo.add(t, "gone@example.com", "hunter2", false)
	mgr := NewManager(repo, nil, "test-secret", time.Hour)

	if _, _, err := mgr.SignIn(context.Background(), "gone@example.com", "hunter2"); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("SignIn disabled = %v, want ErrAccountDisabled", err)
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	repo := newMemUserRepo()
	repo.add(t, "admin@example.com", "hunter2", true)
	mgr := NewManager(repo, nil, "secret-a", time.Hour)

	token, _, err := mgr.SignIn(context.Background(), "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	other := NewManager(repo, nil, "secret-b", time.Hour)
	if _, err := other.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("cross-secret verify = %v, want ErrInvalidToken", err)
	}
	if _, err := mgr.VerifyToken(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered verify = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredToken(t *testing.T) {
	repo := newMemUserRepo()
	repo.add(t, "admin@example.com", "hunter2", true)
	mgr := NewManager(repo, nil, "test-secret", time.Nanosecond)

	token, _, err := mgr.SignIn(context.Background(), "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := mgr.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired verify = %v, want ErrInvalidToken", err)
	}
}

func TestLoginLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewLoginLimiter(client, 3, time.Minute)
	ctx := context.Background()
	email := "admin@example.com"

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, email)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !allowed {
			t.Fatalf("attempt %d blocked before the limit", i+1)
		}
		if err := limiter.RecordFailure(ctx, email); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	allowed, err := limiter.Allow(ctx, email)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if allowed {
		t.Error("fourth attempt allowed after 3 failures")
	}

	// Other accounts are unaffected.
	allowed, err = limiter.Allow(ctx, "other@example.com")
	if err != nil {
		t.Fatalf("Allow other: %v", err)
	}
	if !allowed {
		t.Error("unrelated account blocked")
	}

	// The window expiring clears the counter.
	mr.FastForward(2 * time.Minute)
	allowed, err = limiter.Allow(ctx, email)
	if err != nil {
		t.Fatalf("Allow after expiry: %v", err)
	}
	if !allowed {
		t.Error("account still blocked after the window expired")
	}
}

func TestLoginLimiterBlocksSignIn(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := newMemUserRepo()
	repo.add(t, "admin@example.com", "hunter2", true)
	mgr := NewManager(repo, NewLoginLimiter(client, 2, time.Minute), "test-secret", time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := mgr.SignIn(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("SignIn wrong password = %v", err)
		}
	}

	// Correct password no longer helps once the account is limited.
	if _, _, err := mgr.SignIn(ctx, "admin@example.com", "hunter2"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("SignIn after limit = %v, want ErrRateLimited", err)
	}
}

func TestMiddleware(t *testing.T) {
	repo := newMemUserRepo()
	repo.add(t, "admin@example.com", "hunter2", true)
	mgr := NewManager(repo, nil, "test-secret", time.Hour)

	token, _, err := mgr.SignIn(context.Background(), "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	var gotEmail string
	handler := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = OperatorEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/clicks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authorized request status = %d", rec.Code)
	}
	if gotEmail != "admin@example.com" {
		t.Errorf("context email = %q", gotEmail)
	}

	for _, header := range []string{"", "Bearer bogus", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/clicks", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q status = %d, want 401", header, rec.Code)
		}
	}
}
