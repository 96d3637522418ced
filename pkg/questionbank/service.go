package questionbank

import (
	"context"
)

// Service defines the main interface for the question-bank library
type Service interface {
	// Question operations
	GetQuestion(ctx context.Context, id string) (*Question, error)
	GetHydratedQuestion(ctx context.Context, id string) (*HydrationResult, error)
	ListQuestions(ctx context.Context, req ListQuestionsRequest) (*ListQuestionsResult, error)

	// Filter population
	ListSources(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)

	// Study-state operations
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	ToggleMarked(ctx context.Context, id string) (bool, error)
	UpdateNotes(ctx context.Context, id string, notes string) error
}

// ListQuestionsRequest contains parameters for listing questions.
type ListQuestionsRequest struct {
	Text          string   `json:"text,omitempty"`
	Source        string   `json:"source,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	FavoritesOnly bool     `json:"favorites_only,omitempty"`
	MarkedOnly    bool     `json:"marked_only,omitempty"`
	Page          int      `json:"page,omitempty"`
	PageSize      int      `json:"page_size,omitempty"`
}

// ListQuestionsResult is a single page of questions plus paging totals.
type ListQuestionsResult struct {
	Questions  []*Question `json:"questions"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
