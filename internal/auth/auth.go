package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/pkg/httputil"
	"github.com/sandboxsec/awaretrack/internal/pkg/logger"
)

// Sentinel errors for the auth layer.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrRateLimited        = errors.New("too many failed sign-in attempts")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserRepository defines data access for operator accounts.
type UserRepository interface {
	// GetByEmail returns the operator with the given email, or
	// ErrInvalidCredentials if no such account exists.
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)

	// TouchLastLogin stamps a successful sign-in.
	TouchLastLogin(ctx context.Context, id string) error
}

// claims is the JWT payload for an operator session.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager handles sign-in, token verification, and request
// authentication.
type Manager struct {
	repo        UserRepository
	limiter     *LoginLimiter
	secret      []byte
	tokenExpiry time.Duration
}

// NewManager creates an auth manager. limiter may be nil, which
// disables sign-in rate limiting (tests, single-user setups).
func NewManager(repo UserRepository, limiter *LoginLimiter, secret string, tokenExpiry time.Duration) *Manager {
	if tokenExpiry <= 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &Manager{repo: repo, limiter: limiter, secret: []byte(secret), tokenExpiry: tokenExpiry}
}

// SignIn checks credentials and returns a signed token on success.
func (m *Manager) SignIn(ctx context.Context, email, password string) (string, *domain.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	if m.limiter != nil {
		allowed, err := m.limiter.Allow(ctx, email)
		if err != nil {
			// Redis being down must not lock every operator out.
			log.Printf("[auth] rate limiter unavailable: %v", err)
		} else if !allowed {
			return "", nil, ErrRateLimited
		}
	}

	op, err := m.repo.GetByEmail(ctx, email)
	if err != nil {
		m.recordFailure(ctx, email)
		return "", nil, ErrInvalidCredentials
	}
	if !op.IsActive {
		return "", nil, ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		m.recordFailure(ctx, email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := m.issueToken(op)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}
	if err := m.repo.TouchLastLogin(ctx, op.ID); err != nil {
		log.Printf("[auth] updating last_login for %s: %v", logger.RedactEmail(op.Email), err)
	}
	return token, op, nil
}

func (m *Manager) recordFailure(ctx context.Context, email string) {
	if m.limiter == nil {
		return
	}
	if err := m.limiter.RecordFailure(ctx, email); err != nil {
		log.Printf("[auth] recording failed attempt: %v", err)
	}
}

func (m *Manager) issueToken(op *domain.Operator) (string, error) {
	now := time.Now()
	c := claims{
		Email: op.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// VerifyToken parses and validates a token, returning the operator
// email it was issued to.
func (m *Manager) VerifyToken(tokenString string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return c.Email, nil
}

type contextKey string

// emailKey carries the authenticated operator email through the
// request context.
const emailKey contextKey = "operator_email"

// OperatorEmail returns the authenticated email from a request
// context, if any.
func OperatorEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}

// Middleware rejects requests without a valid bearer token.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httputil.Unauthorized(w, "missing bearer token")
			return
		}
		email, err := m.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httputil.Unauthorized(w, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), emailKey, email)))
	})
}

// HashPassword produces a bcrypt hash for account seeding.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
