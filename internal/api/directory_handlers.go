package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/pkg/httputil"
	"github.com/sandboxsec/awaretrack/internal/service/directory"
)

func (h *Handlers) writeDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		httputil.NotFound(w, "record not found")
	case errors.Is(err, directory.ErrNameTaken):
		httputil.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, directory.ErrMissingFields):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}

func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.dir.ListCampaigns(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	httputil.OK(w, campaigns)
}

func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	c, err := h.dir.CreateCampaign(r.Context(), body.Name, body.Description)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateCampaignStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.CampaignStatus `json:"status"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	if err := h.dir.SetCampaignStatus(r.Context(), chi.URLParam(r, "id"), body.Status); err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.DeleteCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.dir.ListTemplates(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if templates == nil {
		templates = []domain.Template{}
	}
	httputil.OK(w, templates)
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var body domain.Template
	if !httputil.Decode(w, r, &body) {
		return
	}
	t, err := h.dir.CreateTemplate(r.Context(), body)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, t)
}

func (h *Handlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var body domain.Template
	if !httputil.Decode(w, r, &body) {
		return
	}
	body.ID = chi.URLParam(r, "id")
	if err := h.dir.UpdateTemplate(r.Context(), body); err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.dir.ListEmployees(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	httputil.OK(w, employees)
}

func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var body domain.Employee
	if !httputil.Decode(w, r, &body) {
		return
	}
	e, err := h.dir.AddEmployee(r.Context(), body)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, e)
}

func (h *Handlers) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.RemoveEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}
