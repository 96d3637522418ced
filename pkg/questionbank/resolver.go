package questionbank

import (
	"context"
	"errors"
	"path"
)

// Stores holds one AssetStore per typed collection. Nil entries are skipped
// during probing.
type Stores struct {
	Images AssetStore
	Audio  AssetStore
	Videos AssetStore
	Pages  AssetStore
	Tables AssetStore
}

// storeProbe binds a kind to its backing store. Adding an asset kind means
// adding one probe entry; the hydrator never switches on kinds directly.
type storeProbe struct {
	kind  AssetKind
	store AssetStore
}

// Resolver determines the kind of an asset id by probing typed stores in a
// fixed priority order, and loads the minimal data needed to render or link
// to the asset. All lookups are read-only.
type Resolver struct {
	probes    []storeProbe
	assetRoot string
}

// NewResolver creates a resolver over the given stores. The probe order is
// fixed: images, audio, videos, pages, tables. Ids are assumed unique across
// stores; on a collision the first store in probe order wins.
func NewResolver(stores Stores, assetRoot string) *Resolver {
	r := &Resolver{assetRoot: assetRoot}
	for _, p := range []storeProbe{
		{KindImage, stores.Images},
		{KindAudio, stores.Audio},
		{KindVideo, stores.Videos},
		{KindPage, stores.Pages},
		{KindTable, stores.Tables},
	} {
		if p.store != nil {
			r.probes = append(r.probes, p)
		}
	}
	return r
}

// ResolveKind returns the kind of the first store containing a document with
// the given id, or KindUnresolved if none match. A missing id is a
// first-class result: assets can be deleted independently of the text that
// references them.
func (r *Resolver) ResolveKind(ctx context.Context, assetID string) AssetKind {
	if assetID == "" {
		return KindUnresolved
	}
	for _, p := range r.probes {
		if _, err := p.store.FindByID(ctx, assetID); err == nil {
			return p.kind
		}
	}
	return KindUnresolved
}

// LoadFileAsset fetches a file-backed asset document and derives its static
// file path from the per-kind directory convention
// <asset-root>/<kind>s/<display-name>. It does not verify the file exists on
// disk; callers needing guaranteed existence check the blob store.
func (r *Resolver) LoadFileAsset(ctx context.Context, assetID string, kind AssetKind) (*AssetRef, error) {
	doc, err := r.find(ctx, assetID, kind)
	if err != nil {
		return nil, err
	}
	return &AssetRef{
		ID:          assetID,
		Kind:        kind,
		DisplayName: doc.Name,
		FilePath:    path.Join(r.assetRoot, kind.Subdir(), doc.Name),
	}, nil
}

// LoadContentAsset fetches the stored markup of a page or table fragment
// verbatim. The returned markup is the input to a recursive hydration pass,
// not a final asset payload.
func (r *Resolver) LoadContentAsset(ctx context.Context, assetID string, kind AssetKind) (*AssetDocument, error) {
	return r.find(ctx, assetID, kind)
}

func (r *Resolver) find(ctx context.Context, assetID string, kind AssetKind) (*AssetDocument, error) {
	for _, p := range r.probes {
		if p.kind != kind {
			continue
		}
		doc, err := p.store.FindByID(ctx, assetID)
		if err != nil {
			if errors.Is(err, ErrAssetNotFound) {
				return nil, ErrAssetNotFound
			}
			return nil, &AssetError{AssetID: assetID, Kind: kind, Op: "find", Err: err}
		}
		return doc, nil
	}
	return nil, ErrAssetNotFound
}
