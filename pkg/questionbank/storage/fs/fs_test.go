package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motilinbal/question-bank/pkg/questionbank"
)

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestUploadDownloadExists(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := backend.Exists(ctx, "images/ct.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.Upload(ctx, "images/ct.png", strings.NewReader("png-bytes")))

	ok, err = backend.Exists(ctx, "images/ct.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := backend.Download(ctx, "images/ct.png")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestDownloadMissing(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = backend.Download(context.Background(), "images/missing.png")
	assert.ErrorIs(t, err, questionbank.ErrBlobNotFound)
}

func TestURL(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"no prefix", "", "images/ct.png", "/images/ct.png"},
		{"plain prefix", "/static", "images/ct.png", "/static/images/ct.png"},
		{"trailing slash trimmed", "/static/", "images/ct.png", "/static/images/ct.png"},
		{"absolute prefix", "http://localhost:8080/static", "audios/s3.mp3", "http://localhost:8080/static/audios/s3.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := New(Config{BaseDir: t.TempDir(), URLPrefix: tt.prefix})
			require.NoError(t, err)

			got, err := backend.URL(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
