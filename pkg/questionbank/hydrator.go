package questionbank

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// DefaultMaxDepth is the recursion ceiling for nested content fragments.
// A page that references itself, directly or through a cycle of pages,
// degrades to unresolved past this depth instead of recursing forever.
const DefaultMaxDepth = 8

var (
	// Anchor references: <a href="...">link text</a>. The href is either a
	// double-bracketed asset id, an absolute external URL, or something else
	// entirely (left untouched).
	anchorRE = regexp.MustCompile(`(?s)<a\s[^>]*href=["']([^"']*)["'][^>]*>(.*?)</a>`)

	// Media embeds: <img|audio|video ... src="[[asset-id]]" ...>. The element
	// itself is the visible unit; only the src attribute is rewritten.
	mediaRE = regexp.MustCompile(`(<(?:img|audio|video)\b[^>]*?src=["'])\[\[([^\[\]"']*)\]\](["'][^>]*>)`)
)

// HydratorConfig holds the collaborators a Hydrator needs.
type HydratorConfig struct {
	Resolver *Resolver
	URLs     URLStrategy // optional; falls back to the derived file path
	Blobs    BlobStore   // optional; enables backing-file existence checks
	MaxDepth int         // 0 means DefaultMaxDepth
}

// Hydrator scans rich text for placeholder occurrences, resolves each one
// through the Resolver, recursively expands nested content fragments, and
// rewrites the markup into a display-safe form.
//
// Hydration is best effort by construction: dangling and malformed
// references degrade to plain link text, missing backing files degrade to an
// empty source, and no input ever fails a read.
type Hydrator struct {
	resolver *Resolver
	urls     URLStrategy
	blobs    BlobStore
	maxDepth int
}

// NewHydrator creates a hydrator from the given configuration.
func NewHydrator(cfg HydratorConfig) *Hydrator {
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Hydrator{
		resolver: cfg.Resolver,
		urls:     cfg.URLs,
		blobs:    cfg.Blobs,
		maxDepth: maxDepth,
	}
}

// Hydrate rewrites every placeholder occurrence in raw and returns the
// rewritten text together with the updated running index.
//
// Anchor references resolving to an asset are replaced with an inline span
// carrying the original link text and a bracketed superscript ordinal; the
// ordinal equals the asset's 1-based position in assets at append time.
// Callers hydrate fields in a fixed sequence (question body, then
// explanation) passing the same assets slice and the returned index, which
// keeps numbering continuous across fields and nested fragments.
//
// The only side effect is appending to assets; the slice is never reordered
// and entries are never removed.
func (h *Hydrator) Hydrate(ctx context.Context, raw string, assets *[]AssetRef, index int) (string, int) {
	return h.hydrate(ctx, raw, assets, index, 0)
}

func (h *Hydrator) hydrate(ctx context.Context, raw string, assets *[]AssetRef, index, depth int) (string, int) {
	out, index := h.rewriteAnchors(ctx, raw, assets, index, depth)
	out = h.rewriteMediaEmbeds(ctx, out)
	return out, index
}

// rewriteAnchors processes anchor occurrences in textual left-to-right
// order, which together with the threaded index gives a total order across
// the whole question.
func (h *Hydrator) rewriteAnchors(ctx context.Context, raw string, assets *[]AssetRef, index, depth int) (string, int) {
	matches := anchorRE.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return raw, index
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(raw[last:m[0]])

		href := raw[m[2]:m[3]]
		text := raw[m[4]:m[5]]

		repl, rewritten := h.replaceAnchor(ctx, href, text, assets, &index, depth)
		if rewritten {
			b.WriteString(repl)
		} else {
			b.WriteString(raw[m[0]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(raw[last:])
	return b.String(), index
}

// replaceAnchor returns the replacement markup for one anchor occurrence.
// The second return value is false when the anchor is not a reference at all
// and must be carried through verbatim.
func (h *Hydrator) replaceAnchor(ctx context.Context, href, text string, assets *[]AssetRef, index *int, depth int) (string, bool) {
	if id, ok := placeholderToken(href); ok {
		return h.replaceReference(ctx, id, text, assets, index, depth), true
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		*assets = append(*assets, AssetRef{
			Kind:     KindExternalLink,
			URL:      href,
			LinkText: text,
		})
		*index++
		return numberedSpan(text, len(*assets)), true
	}

	return "", false
}

// replaceReference resolves one double-bracketed asset reference. An
// unresolved, malformed, or over-deep reference degrades silently to its
// bare link text and records nothing.
func (h *Hydrator) replaceReference(ctx context.Context, id, text string, assets *[]AssetRef, index *int, depth int) string {
	kind := h.resolver.ResolveKind(ctx, id)

	switch {
	case kind.IsFileBacked():
		ref, err := h.resolver.LoadFileAsset(ctx, id, kind)
		if err != nil {
			return text
		}
		ref.LinkText = text
		*assets = append(*assets, *ref)
		*index++
		return numberedSpan(text, len(*assets))

	case kind.IsContent():
		if depth+1 > h.maxDepth {
			return text
		}
		doc, err := h.resolver.LoadContentAsset(ctx, id, kind)
		if err != nil {
			return text
		}

		// The critical recursive step: nested assets continue the same
		// numbering sequence as outer ones.
		rendered, next := h.hydrate(ctx, doc.Markup, assets, *index, depth+1)
		*index = next

		*assets = append(*assets, AssetRef{
			ID:          id,
			Kind:        kind,
			DisplayName: doc.Name,
			Markup:      rendered,
			LinkText:    text,
		})
		*index++
		return numberedSpan(text, len(*assets))

	default:
		return text
	}
}

// rewriteMediaEmbeds substitutes the src attribute of inline media elements
// with a directly renderable reference. Embeds are already visible, not
// indirect references, so they never append to the asset list.
func (h *Hydrator) rewriteMediaEmbeds(ctx context.Context, raw string) string {
	return mediaRE.ReplaceAllStringFunc(raw, func(match string) string {
		m := mediaRE.FindStringSubmatch(match)
		return m[1] + h.mediaSource(ctx, m[2]) + m[3]
	})
}

// mediaSource resolves an embedded media id to a src value. Any failure
// along the way yields an empty source so the surrounding element still
// renders without breaking the page.
func (h *Hydrator) mediaSource(ctx context.Context, id string) string {
	kind := h.resolver.ResolveKind(ctx, id)
	if !kind.IsFileBacked() {
		return ""
	}

	ref, err := h.resolver.LoadFileAsset(ctx, id, kind)
	if err != nil {
		return ""
	}

	if h.blobs != nil {
		key := path.Join(kind.Subdir(), ref.DisplayName)
		ok, err := h.blobs.Exists(ctx, key)
		if err != nil || !ok {
			return ""
		}
	}

	if h.urls == nil {
		return ref.FilePath
	}
	u, err := h.urls.MediaURL(ctx, kind.Subdir(), ref.DisplayName)
	if err != nil {
		return ""
	}
	return u
}

// placeholderToken extracts the asset id from a double-bracketed href. An
// empty id is reported as found; the caller treats it as unresolved.
func placeholderToken(href string) (string, bool) {
	if !strings.HasPrefix(href, "[[") || !strings.HasSuffix(href, "]]") {
		return "", false
	}
	return strings.TrimSpace(href[2 : len(href)-2]), true
}

func numberedSpan(text string, ordinal int) string {
	return fmt.Sprintf("<span>%s<sup>[%d]</sup></span>", text, ordinal)
}
