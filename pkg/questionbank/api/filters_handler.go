package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/motilinbal/question-bank/pkg/questionbank"
)

// FiltersHandler serves the values that populate list-view filter controls.
type FiltersHandler struct {
	service questionbank.Service
}

// NewFiltersHandler creates a new filters handler
func NewFiltersHandler(service questionbank.Service) *FiltersHandler {
	return &FiltersHandler{service: service}
}

// Routes returns the routes for filter options
func (h *FiltersHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/sources", h.ListSources)
	r.Get("/tags", h.ListTags)

	return r
}

// ListSources returns the distinct question sources
func (h *FiltersHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.service.ListSources(r.Context())
	if err != nil {
		slog.Error("Failed to list sources", "error", err)
		http.Error(w, "failed to list sources", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, map[string][]string{"sources": sources})
}

// ListTags returns the distinct question tags
func (h *FiltersHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		slog.Error("Failed to list tags", "error", err)
		http.Error(w, "failed to list tags", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, map[string][]string{"tags": tags})
}
