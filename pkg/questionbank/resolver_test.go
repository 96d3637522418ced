package questionbank_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motilinbal/question-bank/pkg/questionbank"
	"github.com/motilinbal/question-bank/pkg/questionbank/repo/memory"
)

func newTestResolver(t *testing.T, repo *memory.Repository) *questionbank.Resolver {
	t.Helper()
	return questionbank.NewResolver(storesFor(repo), "assets")
}

func TestResolveKind(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	mustCreateAsset(t, repo, questionbank.KindImage, questionbank.AssetDocument{ID: "img-1", Name: "a.png"})
	mustCreateAsset(t, repo, questionbank.KindAudio, questionbank.AssetDocument{ID: "aud-1", Name: "b.mp3"})
	mustCreateAsset(t, repo, questionbank.KindVideo, questionbank.AssetDocument{ID: "vid-1", Name: "c.mp4"})
	mustCreateAsset(t, repo, questionbank.KindPage, questionbank.AssetDocument{ID: "pg-1", Markup: "<p>x</p>"})
	mustCreateAsset(t, repo, questionbank.KindTable, questionbank.AssetDocument{ID: "tbl-1", Markup: "<table></table>"})

	r := newTestResolver(t, repo)

	tests := []struct {
		id   string
		want questionbank.AssetKind
	}{
		{"img-1", questionbank.KindImage},
		{"aud-1", questionbank.KindAudio},
		{"vid-1", questionbank.KindVideo},
		{"pg-1", questionbank.KindPage},
		{"tbl-1", questionbank.KindTable},
		{"missing", questionbank.KindUnresolved},
		{"", questionbank.KindUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveKind(ctx, tt.id))
		})
	}
}

func TestResolveKindCollisionFirstProbeWins(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	// Ids are assumed unique across stores; if one slips through anyway the
	// probe order decides deterministically.
	mustCreateAsset(t, repo, questionbank.KindImage, questionbank.AssetDocument{ID: "dup", Name: "a.png"})
	mustCreateAsset(t, repo, questionbank.KindPage, questionbank.AssetDocument{ID: "dup", Markup: "<p>x</p>"})

	r := newTestResolver(t, repo)
	assert.Equal(t, questionbank.KindImage, r.ResolveKind(ctx, "dup"))
}

func TestLoadFileAsset(t *testing.T) {
	repo := memory.New()
	mustCreateAsset(t, repo, questionbank.KindImage, questionbank.AssetDocument{ID: "img-1", Name: "scan.png"})

	r := newTestResolver(t, repo)

	ref, err := r.LoadFileAsset(context.Background(), "img-1", questionbank.KindImage)
	require.NoError(t, err)
	assert.Equal(t, "img-1", ref.ID)
	assert.Equal(t, questionbank.KindImage, ref.Kind)
	assert.Equal(t, "scan.png", ref.DisplayName)
	assert.Equal(t, "assets/images/scan.png", ref.FilePath)
}

func TestLoadFileAssetNotFound(t *testing.T) {
	r := newTestResolver(t, memory.New())

	_, err := r.LoadFileAsset(context.Background(), "missing", questionbank.KindImage)
	assert.ErrorIs(t, err, questionbank.ErrAssetNotFound)
}

func TestLoadContentAsset(t *testing.T) {
	repo := memory.New()
	mustCreateAsset(t, repo, questionbank.KindTable, questionbank.AssetDocument{
		ID:     "tbl-1",
		Name:   "Ranges",
		Markup: "<table><tr><td>K 4.0</td></tr></table>",
	})

	r := newTestResolver(t, repo)

	doc, err := r.LoadContentAsset(context.Background(), "tbl-1", questionbank.KindTable)
	require.NoError(t, err)
	assert.Equal(t, "Ranges", doc.Name)
	assert.Equal(t, "<table><tr><td>K 4.0</td></tr></table>", doc.Markup)
}
