package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/motilinbal/question-bank/pkg/questionbank"
)

// QuestionHandler handles HTTP requests for questions
type QuestionHandler struct {
	service questionbank.Service
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(service questionbank.Service) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// Routes returns the routes for questions
func (h *QuestionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListQuestions)
	r.Get("/{id}", h.GetQuestion)
	r.Post("/{id}/favorite", h.ToggleFavorite)
	r.Post("/{id}/marked", h.ToggleMarked)
	r.Put("/{id}/notes", h.UpdateNotes)

	return r
}

// QuestionSummary is the list-view shape of a question: no markup fields,
// which keeps list responses light.
type QuestionSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Source   string   `json:"source,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Favorite bool     `json:"favorite"`
	Marked   bool     `json:"marked"`
	Notes    string   `json:"notes,omitempty"`
}

// ListQuestionsResponse is the response body for a question list page
type ListQuestionsResponse struct {
	Questions  []QuestionSummary `json:"questions"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// ListQuestions lists questions with filters and pagination
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := questionbank.ListQuestionsRequest{
		Text:          q.Get("text"),
		Source:        q.Get("source"),
		FavoritesOnly: q.Get("favorites") == "true",
		MarkedOnly:    q.Get("marked") == "true",
		Page:          intParam(q.Get("page")),
		PageSize:      intParam(q.Get("page_size")),
	}
	if tags := q.Get("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	}

	result, err := h.service.ListQuestions(r.Context(), req)
	if err != nil {
		slog.Error("Failed to list questions", "error", err)
		http.Error(w, "failed to list questions", http.StatusInternalServerError)
		return
	}

	resp := ListQuestionsResponse{
		Questions:  make([]QuestionSummary, 0, len(result.Questions)),
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	for _, question := range result.Questions {
		resp.Questions = append(resp.Questions, QuestionSummary{
			ID:       question.ID,
			Name:     question.Name,
			Source:   question.Source,
			Tags:     question.Tags,
			Favorite: question.Favorite,
			Marked:   question.Marked,
			Notes:    question.Notes,
		})
	}

	render.JSON(w, r, resp)
}

// QuestionDetailResponse is the response body for a hydrated question
type QuestionDetailResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name,omitempty"`
	Source          string                  `json:"source,omitempty"`
	Tags            []string                `json:"tags,omitempty"`
	QuestionHTML    string                  `json:"question_html"`
	ExplanationHTML string                  `json:"explanation_html,omitempty"`
	Choices         []questionbank.Choice   `json:"choices,omitempty"`
	References      []questionbank.AssetRef `json:"references"`
	Favorite        bool                    `json:"favorite"`
	Marked          bool                    `json:"marked"`
	Notes           string                  `json:"notes,omitempty"`
}

// GetQuestion returns a single question with hydrated markup and its
// ordered references
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.GetHydratedQuestion(r.Context(), id)
	if err != nil {
		if errors.Is(err, questionbank.ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to hydrate question", "question_id", id, "error", err)
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}

	q := result.Question
	render.JSON(w, r, QuestionDetailResponse{
		ID:              q.ID,
		Name:            q.Name,
		Source:          q.Source,
		Tags:            q.Tags,
		QuestionHTML:    result.QuestionHTML,
		ExplanationHTML: result.ExplanationHTML,
		Choices:         q.Choices,
		References:      result.Assets,
		Favorite:        q.Favorite,
		Marked:          q.Marked,
		Notes:           q.Notes,
	})
}

// ToggleResponse is the response body for favorite/marked toggles
type ToggleResponse struct {
	ID    string `json:"id"`
	Value bool   `json:"value"`
}

// ToggleFavorite flips the favorite flag of a question
func (h *QuestionHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.ToggleFavorite)
}

// ToggleMarked flips the marked flag of a question
func (h *QuestionHandler) ToggleMarked(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.ToggleMarked)
}

func (h *QuestionHandler) toggle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) (bool, error)) {
	id := chi.URLParam(r, "id")

	value, err := fn(r.Context(), id)
	if err != nil {
		if errors.Is(err, questionbank.ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to toggle flag", "question_id", id, "error", err)
		http.Error(w, "failed to update question", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, ToggleResponse{ID: id, Value: value})
}

// UpdateNotesRequest is the request body for updating notes
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes replaces the notes of a question
func (h *QuestionHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateNotes(r.Context(), id, req.Notes); err != nil {
		if errors.Is(err, questionbank.ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to update notes", "question_id", id, "error", err)
		http.Error(w, "failed to update notes", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]string{"status": "updated"})
}

func intParam(value string) int {
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
