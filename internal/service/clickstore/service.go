package clickstore

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sandboxsec/awaretrack/internal/domain"
)

// Service implements click event business logic on top of a
// Repository. All public methods are safe for concurrent use if the
// underlying repository is concurrency-safe.
type Service struct {
	repo Repository
}

// NewService creates a clickstore service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordEvent records one interaction. Missing key fields fall back to
// "Unknown" rather than rejecting the event; a tracking hit with a
// mangled query string is still worth counting.
func (s *Service) RecordEvent(ctx context.Context, ev domain.ClickEvent) (*domain.ClickEvent, domain.UpsertAction, error) {
	ev.UserID = orUnknown(ev.UserID)
	ev.Dept = orUnknown(ev.Dept)
	ev.Campaign = orUnknown(ev.Campaign)
	if ev.Time == "" {
		ev.Time = time.Now().UTC().Format(time.RFC3339)
	}

	stored, action, err := s.repo.Upsert(ctx, ev)
	if err != nil {
		return nil, "", fmt.Errorf("recording click event: %w", err)
	}

	log.Printf("[clickstore] %s click for user=%s dept=%s campaign=%s count=%d",
		action, stored.UserID, stored.Dept, stored.Campaign, stored.ClickCount)
	return stored, action, nil
}

// SeedResult reports the outcome of one InsertPending batch.
type SeedResult struct {
	Inserted int      `json:"inserted"`
	Errors   []string `json:"errors,omitempty"`
}

// InsertPending provisions pending rows for generated tracking links.
// Each seed commits or fails on its own; one bad record never rolls
// back its siblings. Errors come back in seed order as
// "user_id/dept/campaign: reason".
func (s *Service) InsertPending(ctx context.Context, seeds []domain.ClickSeed) (SeedResult, error) {
	var res SeedResult
	for _, seed := range seeds {
		if seed.UserID == "" || seed.Dept == "" || seed.Campaign == "" {
			res.Errors = append(res.Errors, seedLabel(seed)+": "+ErrMissingKey.Error())
			continue
		}
		if seed.Time == "" {
			seed.Time = time.Now().UTC().Format(time.RFC3339)
		}
		if err := s.repo.InsertSeed(ctx, seed); err != nil {
			res.Errors = append(res.Errors, seedLabel(seed)+": "+err.Error())
			continue
		}
		res.Inserted++
	}
	return res, nil
}

// ListEvents returns all recorded events, newest first.
func (s *Service) ListEvents(ctx context.Context) ([]domain.ClickEvent, error) {
	return s.repo.List(ctx)
}

// DeleteEvent removes one event by id.
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ClearAll removes every recorded event and returns how many were
// deleted.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clearing click events: %w", err)
	}
	log.Printf("[clickstore] cleared %d click events", n)
	return n, nil
}

// DeptStats returns per-department aggregates for the dashboard.
func (s *Service) DeptStats(ctx context.Context) ([]domain.DeptStat, error) {
	return s.repo.DeptStats(ctx)
}

// BrowserStats returns per-browser aggregates for the dashboard.
func (s *Service) BrowserStats(ctx context.Context) ([]domain.BrowserStat, error) {
	return s.repo.BrowserStats(ctx)
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Unknown"
	}
	return v
}

func seedLabel(seed domain.ClickSeed) string {
	return fmt.Sprintf("%s/%s/%s", orUnknown(seed.UserID), orUnknown(seed.Dept), orUnknown(seed.Campaign))
}
