package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sandboxsec/awaretrack/internal/auth"
	"github.com/sandboxsec/awaretrack/internal/domain"
)

// UserRepo implements auth.UserRepository against PostgreSQL.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed operator repository.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	op := &domain.Operator{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, last_login, is_active
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&op.ID, &op.Email, &op.PasswordHash, &op.CreatedAt, &op.LastLogin, &op.IsActive)
	if err == sql.ErrNoRows {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return op, nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch last_login: %w", err)
	}
	return nil
}

// EnsureOperator creates the account if no row exists for the email.
// Used at startup to seed the initial dashboard login.
func (r *UserRepo) EnsureOperator(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, is_active)
		VALUES ($1, LOWER($2), $3, NOW(), TRUE)
		ON CONFLICT (email) DO NOTHING
	`, uuid.New().String(), email, hash)
	if err != nil {
		return fmt.Errorf("ensure operator: %w", err)
	}
	return nil
}
