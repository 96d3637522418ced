package questionbank

import (
	"context"
	"io"
)

// AssetStore is the lookup interface the resolver probes for a single asset
// kind. A miss is ErrAssetNotFound.
type AssetStore interface {
	FindByID(ctx context.Context, id string) (*AssetDocument, error)
}

// Repository defines the interface for question and asset persistence.
type Repository interface {
	// Question operations
	CreateQuestion(ctx context.Context, question *Question) error
	GetQuestion(ctx context.Context, id string) (*Question, error)
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]*Question, int, error)
	UpdateFavorite(ctx context.Context, id string, favorite bool) error
	UpdateMarked(ctx context.Context, id string, marked bool) error
	UpdateNotes(ctx context.Context, id string, notes string) error
	ListSources(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)

	// Asset operations
	CreateAsset(ctx context.Context, kind AssetKind, doc *AssetDocument) error
	FindAsset(ctx context.Context, kind AssetKind, id string) (*AssetDocument, error)
}

// BlobStore defines the interface for media file storage backends. Hydration
// only reads; ingestion writes.
type BlobStore interface {
	// Exists reports whether a blob is present under the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Download returns the blob content for the given key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Upload stores blob content under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// URL returns a directly renderable URL for the given key
	URL(ctx context.Context, key string) (string, error)
}

// URLStrategy turns a media file reference into a renderable src value.
// Implementations live in the mediaurl package.
type URLStrategy interface {
	MediaURL(ctx context.Context, subdir, fileName string) (string, error)
}

// kindStore adapts a Repository to the per-kind AssetStore the resolver
// probes.
type kindStore struct {
	repo Repository
	kind AssetKind
}

func (s kindStore) FindByID(ctx context.Context, id string) (*AssetDocument, error) {
	return s.repo.FindAsset(ctx, s.kind, id)
}

// StoreFor returns a kind-scoped AssetStore view over a repository.
func StoreFor(repo Repository, kind AssetKind) AssetStore {
	return kindStore{repo: repo, kind: kind}
}
