package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/pkg/httputil"
	"github.com/sandboxsec/awaretrack/internal/service/clickstore"
)

// LogClick ingests one interaction event. Public: tracking links hit
// it without credentials, and a storage failure degrades to a soft
// "not logged" so the recipient-facing path never errors.
func (h *Handlers) LogClick(w http.ResponseWriter, r *http.Request) {
	var ev domain.ClickEvent
	if !httputil.Decode(w, r, &ev) {
		return
	}

	stored, action, err := h.clicks.RecordEvent(r.Context(), ev)
	if err != nil {
		httputil.OK(w, map[string]any{"logged": false})
		return
	}
	httputil.OK(w, map[string]any{
		"logged":      true,
		"action":      action,
		"click_count": stored.ClickCount,
	})
}

// ListClicks returns every recorded event, newest first.
func (h *Handlers) ListClicks(w http.ResponseWriter, r *http.Request) {
	events, err := h.clicks.ListEvents(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if events == nil {
		events = []domain.ClickEvent{}
	}
	httputil.OK(w, events)
}

// InsertPendingClicks pre-provisions rows for generated tracking
// links. Partial success is reported, not rolled back.
func (h *Handlers) InsertPendingClicks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Records []domain.ClickSeed `json:"records"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	if len(body.Records) == 0 {
		httputil.BadRequest(w, "records is empty")
		return
	}

	res, err := h.clicks.InsertPending(r.Context(), body.Records)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	status := http.StatusOK
	if len(res.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	httputil.JSON(w, status, res)
}

// DeleteClick removes one event row.
func (h *Handlers) DeleteClick(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "invalid id")
		return
	}
	if err := h.clicks.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, clickstore.ErrNotFound) {
			httputil.NotFound(w, "click event not found")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.NoContent(w)
}

// ClearClicks wipes the whole event table.
func (h *Handlers) ClearClicks(w http.ResponseWriter, r *http.Request) {
	n, err := h.clicks.ClearAll(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]int64{"deleted": n})
}

// DeptStats returns per-department click totals.
func (h *Handlers) DeptStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.clicks.DeptStats(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if stats == nil {
		stats = []domain.DeptStat{}
	}
	httputil.OK(w, stats)
}

// BrowserStats returns per-browser click totals.
func (h *Handlers) BrowserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.clicks.BrowserStats(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if stats == nil {
		stats = []domain.BrowserStat{}
	}
	httputil.OK(w, stats)
}
