package tracking

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandboxsec/awaretrack/internal/domain"
)

// 1x1 transparent GIF
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x44, 0x01, 0x00, 0x3b,
}

// Recorder receives click events decoded from tracking hits.
type Recorder interface {
	RecordEvent(ctx context.Context, ev domain.ClickEvent) (*domain.ClickEvent, domain.UpsertAction, error)
}

// Handler serves the tracking endpoints recipients actually hit.
// Recording is best-effort: a recipient never sees a storage error,
// only the pixel or the redirect.
type Handler struct {
	recorder Recorder
	landing  string
}

// NewHandler creates a tracking handler. landing is the fallback
// redirect target for click hits without a destination.
func NewHandler(recorder Recorder, landing string) *Handler {
	if landing == "" {
		landing = "/awareness"
	}
	return &Handler{recorder: recorder, landing: landing}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/track/open", h.HandleOpen)
	r.Get("/track/click", h.HandleClick)
	r.Get("/health", h.HandleHealth)
	return r
}

// HandleOpen records the hit and serves the pixel no matter what.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ev := h.eventFromRequest(r)
	h.record(r.Context(), ev)
	h.servePixel(w)
}

// HandleClick records the hit and forwards the recipient to the
// awareness landing page (or a whitelisted relative destination).
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	ev := h.eventFromRequest(r)
	h.record(r.Context(), ev)

	target := h.landing
	if to := r.URL.Query().Get("to"); to != "" {
		// Only same-site destinations; an absolute URL here would
		// turn the tracker into an open redirect.
		if u, err := url.Parse(to); err == nil && u.Host == "" && u.Scheme == "" && strings.HasPrefix(u.Path, "/") {
			target = to
		}
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) eventFromRequest(r *http.Request) domain.ClickEvent {
	q := r.URL.Query()
	return domain.ClickEvent{
		UserID:    q.Get("user"),
		Dept:      q.Get("dept"),
		Campaign:  q.Get("campaign"),
		IP:        realIP(r),
		UserAgent: r.UserAgent(),
		Time:      time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *Handler) record(ctx context.Context, ev domain.ClickEvent) {
	stored, action, err := h.recorder.RecordEvent(ctx, ev)
	if err != nil {
		log.Printf("[tracking] click not logged for user=%s campaign=%s: %v", ev.UserID, ev.Campaign, err)
		return
	}
	log.Printf("[tracking] %s user=%s dept=%s campaign=%s count=%d",
		action, stored.UserID, stored.Dept, stored.Campaign, stored.ClickCount)
}

func (h *Handler) servePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Write(pixelGIF)
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
