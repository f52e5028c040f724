package clickstore

import (
	"context"

	"github.com/sandboxsec/awaretrack/internal/domain"
)

// Repository defines the data access contract for click events.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Upsert inserts a new event row or, when a row with the same
	// identity key exists, increments its click count and refreshes
	// ip, user agent, and time. It returns the stored row and whether
	// it was inserted or updated. The insert-or-increment must be
	// atomic under concurrent calls for the same key.
	Upsert(ctx context.Context, ev domain.ClickEvent) (*domain.ClickEvent, domain.UpsertAction, error)

	// InsertSeed inserts a pending row with click count zero. Returns
	// ErrDuplicate when a row with the same identity key exists.
	InsertSeed(ctx context.Context, seed domain.ClickSeed) error

	// List returns all events, newest first.
	List(ctx context.Context) ([]domain.ClickEvent, error)

	// Delete removes one event by id. Returns ErrNotFound if it
	// doesn't exist.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every event and returns the number removed.
	DeleteAll(ctx context.Context) (int64, error)

	// DeptStats returns per-department event and click totals.
	DeptStats(ctx context.Context) ([]domain.DeptStat, error)

	// BrowserStats returns event counts grouped by browser family.
	BrowserStats(ctx context.Context) ([]domain.BrowserStat, error)
}
