package questionbank

import (
	"context"
	"fmt"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// service implements the Service interface
type service struct {
	repository Repository
	stores     Stores
	blobs      BlobStore
	urls       URLStrategy
	assetRoot  string
	maxDepth   int

	hydrator *Hydrator
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the question/asset repository for the service. The
// resolver's typed stores are derived from it unless overridden per kind.
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithAssetStore overrides the backing store probed for a single asset kind.
func WithAssetStore(kind AssetKind, store AssetStore) Option {
	return func(s *service) {
		switch kind {
		case KindImage:
			s.stores.Images = store
		case KindAudio:
			s.stores.Audio = store
		case KindVideo:
			s.stores.Videos = store
		case KindPage:
			s.stores.Pages = store
		case KindTable:
			s.stores.Tables = store
		}
	}
}

// WithBlobStore sets the media file storage used for backing-file checks and
// inline payloads.
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithURLStrategy sets how media embed sources are rendered.
func WithURLStrategy(strategy URLStrategy) Option {
	return func(s *service) {
		s.urls = strategy
	}
}

// WithAssetRoot sets the root prefix for derived file paths.
func WithAssetRoot(root string) Option {
	return func(s *service) {
		s.assetRoot = root
	}
}

// WithMaxDepth sets the recursion ceiling for nested content fragments.
func WithMaxDepth(depth int) Option {
	return func(s *service) {
		s.maxDepth = depth
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		assetRoot: "assets",
		maxDepth:  DefaultMaxDepth,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	if s.stores.Images == nil {
		s.stores.Images = StoreFor(s.repository, KindImage)
	}
	if s.stores.Audio == nil {
		s.stores.Audio = StoreFor(s.repository, KindAudio)
	}
	if s.stores.Videos == nil {
		s.stores.Videos = StoreFor(s.repository, KindVideo)
	}
	if s.stores.Pages == nil {
		s.stores.Pages = StoreFor(s.repository, KindPage)
	}
	if s.stores.Tables == nil {
		s.stores.Tables = StoreFor(s.repository, KindTable)
	}

	s.hydrator = NewHydrator(HydratorConfig{
		Resolver: NewResolver(s.stores, s.assetRoot),
		URLs:     s.urls,
		Blobs:    s.blobs,
		MaxDepth: s.maxDepth,
	})

	return s, nil
}

func (s *service) GetQuestion(ctx context.Context, id string) (*Question, error) {
	q, err := s.repository.GetQuestion(ctx, id)
	if err != nil {
		return nil, &QuestionError{QuestionID: id, Op: "get", Err: err}
	}
	return q, nil
}

// GetHydratedQuestion hydrates the question body first and the explanation
// second, threading one shared asset list and running index through both
// calls so explanation ordinals continue where body ordinals left off. The
// result is recomputed on every call.
func (s *service) GetHydratedQuestion(ctx context.Context, id string) (*HydrationResult, error) {
	q, err := s.repository.GetQuestion(ctx, id)
	if err != nil {
		return nil, &QuestionError{QuestionID: id, Op: "hydrate", Err: err}
	}

	assets := make([]AssetRef, 0)
	questionHTML, index := s.hydrator.Hydrate(ctx, q.QuestionHTML, &assets, 0)
	explanationHTML, index := s.hydrator.Hydrate(ctx, q.ExplanationHTML, &assets, index)

	return &HydrationResult{
		Question:        q,
		QuestionHTML:    questionHTML,
		ExplanationHTML: explanationHTML,
		Assets:          assets,
		NextIndex:       index,
	}, nil
}

func (s *service) ListQuestions(ctx context.Context, req ListQuestionsRequest) (*ListQuestionsResult, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := QuestionFilter{
		Text:          req.Text,
		Source:        req.Source,
		Tags:          req.Tags,
		FavoritesOnly: req.FavoritesOnly,
		MarkedOnly:    req.MarkedOnly,
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	}

	questions, total, err := s.repository.ListQuestions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	return &ListQuestionsResult{
		Questions:  questions,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *service) ListSources(ctx context.Context) ([]string, error) {
	return s.repository.ListSources(ctx)
}

func (s *service) ListTags(ctx context.Context) ([]string, error) {
	return s.repository.ListTags(ctx)
}

func (s *service) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	q, err := s.repository.GetQuestion(ctx, id)
	if err != nil {
		return false, &QuestionError{QuestionID: id, Op: "toggle_favorite", Err: err}
	}
	next := !q.Favorite
	if err := s.repository.UpdateFavorite(ctx, id, next); err != nil {
		return false, &QuestionError{QuestionID: id, Op: "toggle_favorite", Err: err}
	}
	return next, nil
}

func (s *service) ToggleMarked(ctx context.Context, id string) (bool, error) {
	q, err := s.repository.GetQuestion(ctx, id)
	if err != nil {
		return false, &QuestionError{QuestionID: id, Op: "toggle_marked", Err: err}
	}
	next := !q.Marked
	if err := s.repository.UpdateMarked(ctx, id, next); err != nil {
		return false, &QuestionError{QuestionID: id, Op: "toggle_marked", Err: err}
	}
	return next, nil
}

func (s *service) UpdateNotes(ctx context.Context, id string, notes string) error {
	if err := s.repository.UpdateNotes(ctx, id, notes); err != nil {
		return &QuestionError{QuestionID: id, Op: "update_notes", Err: err}
	}
	return nil
}
