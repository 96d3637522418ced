package questionbank_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motilinbal/question-bank/pkg/questionbank"
	"github.com/motilinbal/question-bank/pkg/questionbank/repo/memory"
)

func newTestService(t *testing.T, repo *memory.Repository, opts ...questionbank.Option) questionbank.Service {
	t.Helper()
	opts = append([]questionbank.Option{questionbank.WithRepository(repo)}, opts...)
	svc, err := questionbank.New(opts...)
	require.NoError(t, err)
	return svc
}

func mustCreateQuestion(t *testing.T, repo *memory.Repository, q questionbank.Question) {
	t.Helper()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, repo.CreateQuestion(context.Background(), &q))
}

func TestNewRequiresRepository(t *testing.T) {
	_, err := questionbank.New()
	assert.Error(t, err)
}

func TestGetQuestion(t *testing.T) {
	repo := memory.New()
	mustCreateQuestion(t, repo, questionbank.Question{ID: "q-1", Name: "Aortic stenosis"})

	svc := newTestService(t, repo)
	ctx := context.Background()

	q, err := svc.GetQuestion(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, "Aortic stenosis", q.Name)

	_, err = svc.GetQuestion(ctx, "missing")
	assert.ErrorIs(t, err, questionbank.ErrQuestionNotFound)
}

func TestGetHydratedQuestion(t *testing.T) {
	repo := memory.New()
	mustCreateAsset(t, repo, questionbank.KindImage, questionbank.AssetDocument{ID: "img-1", Name: "cxr.png"})
	mustCreateAsset(t, repo, questionbank.KindImage, questionbank.AssetDocument{ID: "img-2", Name: "ecg.png"})
	mustCreateQuestion(t, repo, questionbank.Question{
		ID:              "q-1",
		QuestionHTML:    `Look at <a href="[[img-1]]">the film</a>.`,
		ExplanationHTML: `Compare with <a href="[[img-2]]">the tracing</a>.`,
	})

	svc := newTestService(t, repo)

	res, err := svc.GetHydratedQuestion(context.Background(), "q-1")
	require.NoError(t, err)

	assert.Equal(t, `Look at <span>the film<sup>[1]</sup></span>.`, res.QuestionHTML)
	assert.Equal(t, `Compare with <span>the tracing<sup>[2]</sup></span>.`, res.ExplanationHTML)
	assert.Equal(t, 2, res.NextIndex)

	require.Len(t, res.Assets, 2)
	assert.Equal(t, "img-1", res.Assets[0].ID)
	assert.Equal(t, "img-2", res.Assets[1].ID)

	// Raw markup on the inner question is untouched.
	assert.Contains(t, res.Question.QuestionHTML, "[[img-1]]")
}

func TestGetHydratedQuestionRecomputedPerCall(t *testing.T) {
	repo := memory.New()
	mustCreateQuestion(t, repo, questionbank.Question{
		ID:           "q-1",
		QuestionHTML: `See <a href="[[img-1]]">figure</a>.`,
	})

	svc := newTestService(t, repo)
	ctx := context.Background()

	res, err := svc.GetHydratedQuestion(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, "See figure.", res.QuestionHTML)
	assert.Empty(t, res.Assets)

	// The asset appears later; the next read picks it up.
	mustCreateAsset(t, repo, questionbank.KindImage, questionbank.AssetDocument{ID: "img-1", Name: "late.png"})

	res, err = svc.GetHydratedQuestion(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, `See <span>figure<sup>[1]</sup></span>.`, res.QuestionHTML)
	require.Len(t, res.Assets, 1)
}

func TestListQuestions(t *testing.T) {
	repo := memory.New()
	mustCreateQuestion(t, repo, questionbank.Question{
		ID: "q-1", Name: "MI management", Source: "cardio-1",
		Tags: []string{"cardiology", "emergency"},
	})
	mustCreateQuestion(t, repo, questionbank.Question{
		ID: "q-2", Name: "Asthma exacerbation", Source: "pulm-1",
		Tags: []string{"pulmonology"}, Favorite: true,
	})
	mustCreateQuestion(t, repo, questionbank.Question{
		ID: "q-3", Name: "Stable angina", Source: "cardio-1",
		Tags: []string{"cardiology"}, Marked: true,
	})

	svc := newTestService(t, repo)
	ctx := context.Background()

	t.Run("no filter returns everything", func(t *testing.T) {
		res, err := svc.ListQuestions(ctx, questionbank.ListQuestionsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalCount)
		assert.Len(t, res.Questions, 3)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("by source", func(t *testing.T) {
		res, err := svc.ListQuestions(ctx, questionbank.ListQuestionsRequest{Source: "cardio-1"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalCount)
	})

	t.Run("by tags requires all", func(t *testing.T) {
		res, err := svc.ListQuestions(ctx, questionbank.ListQuestionsRequest{
			Tags: []string{"cardiology", "emergency"},
		})
		require.NoError(t, err)
		require.Equal(t, 1, res.TotalCount)
		assert.Equal(t, "q-1", res.Questions[0].ID)
	})

	t.Run("favorites only", func(t *testing.T) {
		res, err := svc.ListQuestions(ctx, questionbank.ListQuestionsRequest{FavoritesOnly: true})
		require.NoError(t, err)
		require.Equal(t, 1, res.TotalCount)
		assert.Equal(t, "q-2", res.Questions[0].ID)
	})

	t.Run("marked only", func(t *testing.T) {
		res, err := svc.ListQuestions(ctx, questionbank.ListQuestionsRequest{MarkedOnly: true})
		require.NoError(t, err)
		require.Equal(t, 1, res.TotalCount)
		assert.Equal(t, "q-3", res.Questions[0].ID)
	})

	t.Run("text search on name", func(t *testing.T) {
		res, err := svc.ListQuestions(ctx, questionbank.ListQuestionsRequest{Text: "angina"})
		require.NoError(t, err)
		require.Equal(t, 1, res.TotalCount)
		assert.Equal(t, "q-3", res.Questions[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		res, err := svc.ListQuestions(ctx, questionbank.ListQuestionsRequest{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalCount)
		assert.Equal(t, 2, res.TotalPages)
		require.Len(t, res.Questions, 1)
		assert.Equal(t, "q-3", res.Questions[0].ID)
	})
}

func TestListSourcesAndTags(t *testing.T) {
	repo := memory.New()
	mustCreateQuestion(t, repo, questionbank.Question{ID: "q-1", Source: "cardio-1", Tags: []string{"b", "a"}})
	mustCreateQuestion(t, repo, questionbank.Question{ID: "q-2", Source: "pulm-1", Tags: []string{"a"}})

	svc := newTestService(t, repo)
	ctx := context.Background()

	sources, err := svc.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cardio-1", "pulm-1"}, sources)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestToggleFavorite(t *testing.T) {
	repo := memory.New()
	mustCreateQuestion(t, repo, questionbank.Question{ID: "q-1"})

	svc := newTestService(t, repo)
	ctx := context.Background()

	on, err := svc.ToggleFavorite(ctx, "q-1")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := svc.ToggleFavorite(ctx, "q-1")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = svc.ToggleFavorite(ctx, "missing")
	assert.ErrorIs(t, err, questionbank.ErrQuestionNotFound)
}

func TestToggleMarked(t *testing.T) {
	repo := memory.New()
	mustCreateQuestion(t, repo, questionbank.Question{ID: "q-1"})

	svc := newTestService(t, repo)

	on, err := svc.ToggleMarked(context.Background(), "q-1")
	require.NoError(t, err)
	assert.True(t, on)
}

func TestUpdateNotes(t *testing.T) {
	repo := memory.New()
	mustCreateQuestion(t, repo, questionbank.Question{ID: "q-1"})

	svc := newTestService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.UpdateNotes(ctx, "q-1", "review ECG criteria"))

	q, err := svc.GetQuestion(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, "review ECG criteria", q.Notes)

	err = svc.UpdateNotes(ctx, "missing", "x")
	assert.ErrorIs(t, err, questionbank.ErrQuestionNotFound)
}
