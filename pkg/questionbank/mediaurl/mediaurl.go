// Package mediaurl provides strategies for turning a resolved media file
// reference into a renderable src value. Static serves files from a URL
// prefix; Inline embeds the file content as a data: payload so the resulting
// markup renders without further lookups.
package mediaurl

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

// Strategy generates a renderable URL for a media file. subdir is the
// per-kind directory name ("images", "audios", "videos").
type Strategy interface {
	MediaURL(ctx context.Context, subdir, fileName string) (string, error)
}

// Static generates prefix-joined static paths ("/static/images/ct.png").
type Static struct {
	Prefix string
}

// NewStatic creates a static-path strategy rooted at the given URL prefix.
func NewStatic(prefix string) *Static {
	return &Static{Prefix: prefix}
}

func (s *Static) MediaURL(ctx context.Context, subdir, fileName string) (string, error) {
	key := path.Join(subdir, fileName)
	if s.Prefix == "" {
		return "/" + key, nil
	}
	return strings.TrimSuffix(s.Prefix, "/") + "/" + key, nil
}

// Downloader is the slice of blob storage Inline needs.
type Downloader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// Inline embeds file content directly as a base64 data: payload.
type Inline struct {
	Store Downloader
}

// NewInline creates an inline data-payload strategy over the given store.
func NewInline(store Downloader) *Inline {
	return &Inline{Store: store}
}

func (s *Inline) MediaURL(ctx context.Context, subdir, fileName string) (string, error) {
	key := path.Join(subdir, fileName)

	rc, err := s.Store.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}

	mimeType := mime.TypeByExtension(path.Ext(fileName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
