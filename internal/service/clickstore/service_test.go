package clickstore_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/service/clickstore"
)

// memRepo is an in-memory click repository for unit testing.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[domain.ClickKey]*domain.ClickEvent
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[domain.ClickKey]*domain.ClickEvent)}
}

func (m *memRepo) Upsert(_ context.Context, ev domain.ClickEvent) (*domain.ClickEvent, domain.UpsertAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ev.Key()
	if row, ok := m.rows[key]; ok {
		row.IP = ev.IP
		row.UserAgent = ev.UserAgent
		row.Time = ev.Time
		row.ClickCount++
		cp := *row
		return &cp, domain.ActionUpdated, nil
	}

	m.nextID++
	ev.ID = m.nextID
	ev.ClickCount = 1
	m.rows[key] = &ev
	cp := ev
	return &cp, domain.ActionInserted, nil
}

func (m *memRepo) InsertSeed(_ context.Context, seed domain.ClickSeed) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := domain.ClickKey{UserID: seed.UserID, Dept: seed.Dept, Campaign: seed.Campaign}
	if _, ok := m.rows[key]; ok {
		return clickstore.ErrDuplicate
	}
	m.nextID++
	m.rows[key] = &domain.ClickEvent{
		ID: m.nextID, UserID: seed.UserID, Dept: seed.Dept, Campaign: seed.Campaign,
		IP: seed.IP, UserAgent: seed.UserAgent, Time: seed.Time, ClickCount: 0,
	}
	return nil
}

func (m *memRepo) List(_ context.Context) ([]domain.ClickEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ClickEvent, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, row := range m.rows {
		if row.ID == id {
			delete(m.rows, key)
			return nil
		}
	}
	return clickstore.ErrNotFound
}

func (m *memRepo) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows))
	m.rows = make(map[domain.ClickKey]*domain.ClickEvent)
	return n, nil
}

func (m *memRepo) DeptStats(_ context.Context) ([]domain.DeptStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, row := range m.rows {
		counts[row.Dept] += row.ClickCount
	}
	var out []domain.DeptStat
	for dept, n := range counts {
		out = append(out, domain.DeptStat{Dept: dept, Count: n})
	}
	return out, nil
}

func (m *memRepo) BrowserStats(_ context.Context) ([]domain.BrowserStat, error) {
	return nil, nil
}

func TestRecordEventInsertThenUpdate(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())
	ctx := context.Background()

	ev := domain.ClickEvent{UserID: "jdoe", Dept: "Finance", Campaign: "Q3-Phish", IP: "10.0.0.1", UserAgent: "Mozilla/5.0", Time: "2026-08-01T10:00:00Z"}

	stored, action, err := svc.RecordEvent(ctx, ev)
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if action != domain.ActionInserted {
		t.Errorf("first event action = %s, want inserted", action)
	}
	if stored.ClickCount != 1 {
		t.Errorf("first event click_count = %d, want 1", stored.ClickCount)
	}

	ev.IP = "10.0.0.2"
	ev.Time = "2026-08-01T11:00:00Z"
	stored, action, err = svc.RecordEvent(ctx, ev)
	if err != nil {
		t.Fatalf("RecordEvent second: %v", err)
	}
	if action != domain.ActionUpdated {
		t.Errorf("second event action = %s, want updated", action)
	}
	if stored.ClickCount != 2 {
		t.Errorf("second event click_count = %d, want 2", stored.ClickCount)
	}
	if stored.IP != "10.0.0.2" || stored.Time != "2026-08-01T11:00:00Z" {
		t.Errorf("context fields not refreshed: %+v", stored)
	}
}

func TestRecordEventCumulativeCount(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, _, err := svc.RecordEvent(ctx, domain.ClickEvent{UserID: "u1", Dept: "IT", Campaign: "c1"}); err != nil {
			t.Fatalf("RecordEvent %d: %v", i, err)
		}
	}

	events, err := svc.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d rows after 5 same-key events, want 1", len(events))
	}
	if events[0].ClickCount != 5 {
		t.Errorf("click_count = %d, want 5", events[0].ClickCount)
	}
}

func TestRecordEventDistinctKeys(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())
	ctx := context.Background()

	keys := []domain.ClickEvent{
		{UserID: "u1", Dept: "IT", Campaign: "c1"},
		{UserID: "u2", Dept: "IT", Campaign: "c1"},
		{UserID: "u1", Dept: "HR", Campaign: "c1"},
		{UserID: "u1", Dept: "IT", Campaign: "c2"},
	}
	for _, ev := range keys {
		if _, _, err := svc.RecordEvent(ctx, ev); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}

	events, err := svc.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != len(keys) {
		t.Errorf("got %d rows, want %d distinct rows", len(events), len(keys))
	}
}

func TestRecordEventDefaultsMissingFields(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())

	stored, _, err := svc.RecordEvent(context.Background(), domain.ClickEvent{Campaign: "c1"})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if stored.UserID != "Unknown" || stored.Dept != "Unknown" {
		t.Errorf("missing fields should default to Unknown, got %+v", stored)
	}
	if stored.Time == "" {
		t.Error("missing time should be stamped")
	}
}

func TestInsertPendingPartialFailure(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())
	ctx := context.Background()

	seeds := []domain.ClickSeed{
		{UserID: "u1", Dept: "IT", Campaign: "c1"},
		{UserID: "u2", Dept: "IT", Campaign: "c1"},
		{UserID: "u1", Dept: "IT", Campaign: "c1"}, // duplicate of the first
	}

	res, err := svc.InsertPending(ctx, seeds)
	if err != nil {
		t.Fatalf("InsertPending: %v", err)
	}
	if res.Inserted != 2 {
		t.Errorf("inserted = %d, want 2", res.Inserted)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly 1", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "u1/IT/c1: ") {
		t.Errorf("error not labeled with the failing key: %q", res.Errors[0])
	}

	events, err := svc.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d rows, want the 2 committed seeds", len(events))
	}
}

func TestInsertPendingRejectsIncompleteKeys(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())

	res, err := svc.InsertPending(context.Background(), []domain.ClickSeed{
		{UserID: "u1", Campaign: "c1"}, // no dept
	})
	if err != nil {
		t.Fatalf("InsertPending: %v", err)
	}
	if res.Inserted != 0 || len(res.Errors) != 1 {
		t.Errorf("result = %+v, want 0 inserted and 1 error", res)
	}
}

func TestSeedThenClickCountsFromOne(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())
	ctx := context.Background()

	if _, err := svc.InsertPending(ctx, []domain.ClickSeed{{UserID: "u1", Dept: "IT", Campaign: "c1"}}); err != nil {
		t.Fatalf("InsertPending: %v", err)
	}

	stored, action, err := svc.RecordEvent(ctx, domain.ClickEvent{UserID: "u1", Dept: "IT", Campaign: "c1"})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if action != domain.ActionUpdated {
		t.Errorf("click on seeded row action = %s, want updated", action)
	}
	if stored.ClickCount != 1 {
		t.Errorf("first click on seeded row count = %d, want 1", stored.ClickCount)
	}
}

func TestClearAll(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())
	ctx := context.Background()

	for _, u := range []string{"u1", "u2", "u3"} {
		if _, _, err := svc.RecordEvent(ctx, domain.ClickEvent{UserID: u, Dept: "IT", Campaign: "c1"}); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}

	n, err := svc.ClearAll(ctx)
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if n != 3 {
		t.Errorf("ClearAll removed %d, want 3", n)
	}

	events, err := svc.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("store not empty after ClearAll: %d rows", len(events))
	}
}

func TestConcurrentSameKeyUpserts(t *testing.T) {
	svc := clickstore.NewService(newMemRepo())
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _, _ = svc.RecordEvent(ctx, domain.ClickEvent{UserID: "u1", Dept: "IT", Campaign: "c1"})
		}()
	}
	wg.Wait()

	events, err := svc.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d rows after concurrent same-key events, want 1", len(events))
	}
	if events[0].ClickCount != workers {
		t.Errorf("click_count = %d, want %d", events[0].ClickCount, workers)
	}
}
