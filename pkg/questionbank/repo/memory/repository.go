package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/motilinbal/question-bank/pkg/questionbank"
)

// Repository implements questionbank.Repository using in-memory storage.
// Intended for tests and single-process deployments.
type Repository struct {
	mu        sync.RWMutex
	questions map[string]*questionbank.Question
	assets    map[questionbank.AssetKind]map[string]*questionbank.AssetDocument
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		questions: make(map[string]*questionbank.Question),
		assets:    make(map[questionbank.AssetKind]map[string]*questionbank.AssetDocument),
	}
}

// Question operations

func (r *Repository) CreateQuestion(ctx context.Context, question *questionbank.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid external modifications
	questionCopy := *question
	if questionCopy.CreatedAt.IsZero() {
		questionCopy.CreatedAt = time.Now().UTC()
	}
	questionCopy.UpdatedAt = questionCopy.CreatedAt
	r.questions[question.ID] = &questionCopy

	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, id string) (*questionbank.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, exists := r.questions[id]
	if !exists {
		return nil, questionbank.ErrQuestionNotFound
	}

	questionCopy := *q
	return &questionCopy, nil
}

func (r *Repository) ListQuestions(ctx context.Context, filter questionbank.QuestionFilter) ([]*questionbank.Question, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*questionbank.Question
	for _, q := range r.questions {
		if matchesFilter(q, filter) {
			questionCopy := *q
			matched = append(matched, &questionCopy)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func matchesFilter(q *questionbank.Question, filter questionbank.QuestionFilter) bool {
	if filter.Source != "" && q.Source != filter.Source {
		return false
	}
	if filter.FavoritesOnly && !q.Favorite {
		return false
	}
	if filter.MarkedOnly && !q.Marked {
		return false
	}
	if filter.Text != "" {
		needle := strings.ToLower(filter.Text)
		if !strings.Contains(strings.ToLower(q.QuestionHTML), needle) &&
			!strings.Contains(strings.ToLower(q.Name), needle) {
			return false
		}
	}
	for _, want := range filter.Tags {
		found := false
		for _, tag := range q.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *Repository) UpdateFavorite(ctx context.Context, id string, favorite bool) error {
	return r.updateQuestion(id, func(q *questionbank.Question) {
		q.Favorite = favorite
	})
}

func (r *Repository) UpdateMarked(ctx context.Context, id string, marked bool) error {
	return r.updateQuestion(id, func(q *questionbank.Question) {
		q.Marked = marked
	})
}

func (r *Repository) UpdateNotes(ctx context.Context, id string, notes string) error {
	return r.updateQuestion(id, func(q *questionbank.Question) {
		q.Notes = notes
	})
}

func (r *Repository) updateQuestion(id string, update func(*questionbank.Question)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, exists := r.questions[id]
	if !exists {
		return questionbank.ErrQuestionNotFound
	}
	update(q)
	q.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) ListSources(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, q := range r.questions {
		if q.Source != "" {
			seen[q.Source] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, q := range r.questions {
		for _, tag := range q.Tags {
			if tag != "" {
				seen[tag] = struct{}{}
			}
		}
	}
	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Asset operations

func (r *Repository) CreateAsset(ctx context.Context, kind questionbank.AssetKind, doc *questionbank.AssetDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID, exists := r.assets[kind]
	if !exists {
		byID = make(map[string]*questionbank.AssetDocument)
		r.assets[kind] = byID
	}

	docCopy := *doc
	if docCopy.CreatedAt.IsZero() {
		docCopy.CreatedAt = time.Now().UTC()
	}
	docCopy.UpdatedAt = docCopy.CreatedAt
	byID[doc.ID] = &docCopy

	return nil
}

func (r *Repository) FindAsset(ctx context.Context, kind questionbank.AssetKind, id string) (*questionbank.AssetDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.assets[kind][id]
	if !exists {
		return nil, questionbank.ErrAssetNotFound
	}

	docCopy := *doc
	return &docCopy, nil
}
