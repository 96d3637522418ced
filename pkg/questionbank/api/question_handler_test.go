package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motilinbal/question-bank/pkg/questionbank"
	"github.com/motilinbal/question-bank/pkg/questionbank/repo/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Repository) {
	t.Helper()

	repo := memory.New()
	svc, err := questionbank.New(questionbank.WithRepository(repo))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/questions", NewQuestionHandler(svc).Routes())
	r.Mount("/filters", NewFiltersHandler(svc).Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func seedQuestion(t *testing.T, repo *memory.Repository, q questionbank.Question) {
	t.Helper()
	require.NoError(t, repo.CreateQuestion(context.Background(), &q))
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestListQuestionsEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	seedQuestion(t, repo, questionbank.Question{
		ID: "q-1", Name: "MI management", Source: "cardio-1",
		Tags: []string{"cardiology"}, QuestionHTML: "<p>stem</p>",
	})
	seedQuestion(t, repo, questionbank.Question{
		ID: "q-2", Name: "Asthma", Source: "pulm-1", Favorite: true,
	})

	t.Run("unfiltered", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/questions")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ListQuestionsResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, 2, body.TotalCount)
		require.Len(t, body.Questions, 2)
		assert.Equal(t, "q-1", body.Questions[0].ID)
	})

	t.Run("filtered by source", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/questions?source=pulm-1")
		require.NoError(t, err)

		var body ListQuestionsResponse
		decodeBody(t, resp, &body)
		require.Equal(t, 1, body.TotalCount)
		assert.Equal(t, "q-2", body.Questions[0].ID)
	})

	t.Run("filtered by favorites and tags", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/questions?favorites=true")
		require.NoError(t, err)

		var body ListQuestionsResponse
		decodeBody(t, resp, &body)
		require.Equal(t, 1, body.TotalCount)
		assert.True(t, body.Questions[0].Favorite)

		resp, err = http.Get(srv.URL + "/questions?tags=cardiology")
		require.NoError(t, err)
		decodeBody(t, resp, &body)
		require.Equal(t, 1, body.TotalCount)
		assert.Equal(t, "q-1", body.Questions[0].ID)
	})

	t.Run("paged", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/questions?page=2&page_size=1")
		require.NoError(t, err)

		var body ListQuestionsResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, 2, body.TotalCount)
		assert.Equal(t, 2, body.Page)
		require.Len(t, body.Questions, 1)
		assert.Equal(t, "q-2", body.Questions[0].ID)
	})
}

func TestGetQuestionEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	require.NoError(t, repo.CreateAsset(context.Background(), questionbank.KindImage,
		&questionbank.AssetDocument{ID: "img-1", Name: "cxr.png"}))
	seedQuestion(t, repo, questionbank.Question{
		ID:           "q-1",
		QuestionHTML: `See <a href="[[img-1]]">the film</a>.`,
	})

	resp, err := http.Get(srv.URL + "/questions/q-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body QuestionDetailResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, `See <span>the film<sup>[1]</sup></span>.`, body.QuestionHTML)
	require.Len(t, body.References, 1)
	assert.Equal(t, "img-1", body.References[0].ID)
	assert.Equal(t, questionbank.KindImage, body.References[0].Kind)
}

func TestGetQuestionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/questions/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleEndpoints(t *testing.T) {
	srv, repo := newTestServer(t)
	seedQuestion(t, repo, questionbank.Question{ID: "q-1"})

	resp, err := http.Post(srv.URL+"/questions/q-1/favorite", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ToggleResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "q-1", body.ID)
	assert.True(t, body.Value)

	resp, err = http.Post(srv.URL+"/questions/q-1/marked", "application/json", nil)
	require.NoError(t, err)
	decodeBody(t, resp, &body)
	assert.True(t, body.Value)

	resp, err = http.Post(srv.URL+"/questions/missing/favorite", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateNotesEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	seedQuestion(t, repo, questionbank.Question{ID: "q-1"})

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/questions/q-1/notes",
		strings.NewReader(`{"notes":"review criteria"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	q, err := repo.GetQuestion(context.Background(), "q-1")
	require.NoError(t, err)
	assert.Equal(t, "review criteria", q.Notes)
}

func TestUpdateNotesBadBody(t *testing.T) {
	srv, repo := newTestServer(t)
	seedQuestion(t, repo, questionbank.Question{ID: "q-1"})

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/questions/q-1/notes",
		strings.NewReader(`{not json`))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFiltersEndpoints(t *testing.T) {
	srv, repo := newTestServer(t)
	seedQuestion(t, repo, questionbank.Question{ID: "q-1", Source: "cardio-1", Tags: []string{"cardiology", "acls"}})
	seedQuestion(t, repo, questionbank.Question{ID: "q-2", Source: "pulm-1"})

	resp, err := http.Get(srv.URL + "/filters/sources")
	require.NoError(t, err)

	var sources map[string][]string
	decodeBody(t, resp, &sources)
	assert.Equal(t, []string{"cardio-1", "pulm-1"}, sources["sources"])

	resp, err = http.Get(srv.URL + "/filters/tags")
	require.NoError(t, err)

	var tags map[string][]string
	decodeBody(t, resp, &tags)
	assert.Equal(t, []string{"acls", "cardiology"}, tags["tags"])
}
