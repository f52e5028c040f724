package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/service/clickstore"
)

const pqUniqueViolation = "23505"

// ClickRepo implements clickstore.Repository against PostgreSQL. The
// clicks table carries a unique constraint on (user_id, dept,
// campaign); that constraint is the serialization point that keeps
// concurrent same-key upserts from creating duplicate rows.
type ClickRepo struct{ db *sql.DB }

// NewClickRepo creates a Postgres-backed click repository.
func NewClickRepo(db *sql.DB) *ClickRepo { return &ClickRepo{db: db} }

func (r *ClickRepo) Upsert(ctx context.Context, ev domain.ClickEvent) (*domain.ClickEvent, domain.UpsertAction, error) {
	stored := &domain.ClickEvent{}
	var inserted bool

	// xmax = 0 only on freshly inserted tuples, which distinguishes
	// the insert branch from a conflict update in one round trip.
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clicks (user_id, dept, campaign, ip, user_agent, time, click_count)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		ON CONFLICT (user_id, dept, campaign) DO UPDATE SET
			ip = EXCLUDED.ip,
			user_agent = EXCLUDED.user_agent,
			time = EXCLUDED.time,
			click_count = clicks.click_count + 1
		RETURNING id, user_id, dept, campaign, ip, user_agent, time, click_count, (xmax = 0)
	`, ev.UserID, ev.Dept, ev.Campaign, ev.IP, ev.UserAgent, ev.Time).Scan(
		&stored.ID, &stored.UserID, &stored.Dept, &stored.Campaign,
		&stored.IP, &stored.UserAgent, &stored.Time, &stored.ClickCount, &inserted,
	)
	if err != nil {
		return nil, "", fmt.Errorf("upsert click: %w", err)
	}

	action := domain.ActionUpdated
	if inserted {
		action = domain.ActionInserted
	}
	return stored, action, nil
}

func (r *ClickRepo) InsertSeed(ctx context.Context, seed domain.ClickSeed) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clicks (user_id, dept, campaign, ip, user_agent, time, click_count)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
	`, seed.UserID, seed.Dept, seed.Campaign, seed.IP, seed.UserAgent, seed.Time)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return clickstore.ErrDuplicate
		}
		return fmt.Errorf("insert click seed: %w", err)
	}
	return nil
}

func (r *ClickRepo) List(ctx context.Context) ([]domain.ClickEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, dept, campaign, COALESCE(ip,''), COALESCE(user_agent,''),
		       COALESCE(time,''), click_count
		FROM clicks
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list clicks: %w", err)
	}
	defer rows.Close()

	var out []domain.ClickEvent
	for rows.Next() {
		var ev domain.ClickEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Dept, &ev.Campaign,
			&ev.IP, &ev.UserAgent, &ev.Time, &ev.ClickCount); err != nil {
			return nil, fmt.Errorf("scan click: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *ClickRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clicks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete click: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return clickstore.ErrNotFound
	}
	return nil
}

func (r *ClickRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clicks`)
	if err != nil {
		return 0, fmt.Errorf("clear clicks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear clicks rows affected: %w", err)
	}
	return n, nil
}

func (r *ClickRepo) DeptStats(ctx context.Context) ([]domain.DeptStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(dept,''),'Unknown'), SUM(click_count)::int
		FROM clicks
		GROUP BY 1
		ORDER BY 2 DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("dept stats: %w", err)
	}
	defer rows.Close()

	var out []domain.DeptStat
	for rows.Next() {
		var s domain.DeptStat
		if err := rows.Scan(&s.Dept, &s.Count); err != nil {
			return nil, fmt.Errorf("scan dept stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ClickRepo) BrowserStats(ctx context.Context) ([]domain.BrowserStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CASE
			WHEN user_agent ILIKE '%edg%' THEN 'Edge'
			WHEN user_agent ILIKE '%firefox%' THEN 'Firefox'
			WHEN user_agent ILIKE '%chrome%' THEN 'Chrome'
			WHEN user_agent ILIKE '%safari%' THEN 'Safari'
			ELSE 'Other'
		END AS browser, COUNT(*)::int
		FROM clicks
		GROUP BY 1
		ORDER BY 2 DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("browser stats: %w", err)
	}
	defer rows.Close()

	var out []domain.BrowserStat
	for rows.Next() {
		var s domain.BrowserStat
		if err := rows.Scan(&s.Browser, &s.Count); err != nil {
			return nil, fmt.Errorf("scan browser stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
