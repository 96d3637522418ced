package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/motilinbal/question-bank/pkg/questionbank"
)

// Backend is a filesystem implementation of the questionbank.BlobStore
// interface. Keys are slash-separated paths under the base directory
// ("images/ct.png").
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing media files
	URLPrefix string // URL prefix under which BaseDir is served
}

// New creates a new filesystem storage backend
func New(config Config) (questionbank.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.baseDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &questionbank.StorageError{Key: key, Op: "exists", Err: err}
	}
	return true, nil
}

func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(b.baseDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil, questionbank.ErrBlobNotFound
	}
	if err != nil {
		return nil, &questionbank.StorageError{Key: key, Op: "download", Err: err}
	}
	return f, nil
}

func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	target := filepath.Join(b.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return &questionbank.StorageError{Key: key, Op: "upload", Err: err}
	}

	f, err := os.Create(target)
	if err != nil {
		return &questionbank.StorageError{Key: key, Op: "upload", Err: err}
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return &questionbank.StorageError{Key: key, Op: "upload", Err: err}
	}
	return nil
}

func (b *Backend) URL(ctx context.Context, key string) (string, error) {
	if b.urlPrefix == "" {
		return "/" + key, nil
	}
	return strings.TrimSuffix(b.urlPrefix, "/") + "/" + key, nil
}

// BaseDir returns the directory this backend serves from, for wiring a
// static file server.
func (b *Backend) BaseDir() string {
	return b.baseDir
}
