package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/interfaces/http/handlers"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

type mockPipeline struct {
	scoreFn func(ctx context.Context, p post.Post) (*post.ScoredPost, error)
}

func (m *mockPipeline) ScorePost(ctx context.Context, p post.Post) (*post.ScoredPost, error) {
	return m.scoreFn(ctx, p)
}

func (m *mockPipeline) ScoreBatch(context.Context, []post.Post) ([]*post.ScoredPost, error) {
	panic("not used")
}

func (m *mockPipeline) Relevant(scored []*post.ScoredPost) []*post.ScoredPost { return scored }

func (m *mockPipeline) NeedsBroaderSearch([]*post.ScoredPost) bool { return false }

func newTestRouter(pl *mockPipeline) *gin.Engine {
	return NewRouter(RouterConfig{
		ScoreHandler: handlers.NewScoreHandler(pl),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.ReadinessCheck{
			"llm": func(context.Context) error { return nil },
		}),
		Registry: prometheus.NewRegistry(),
		Mode:     gin.TestMode,
	})
}

func TestScoreEndpoint(t *testing.T) {
	pl := &mockPipeline{scoreFn: func(_ context.Context, p post.Post) (*post.ScoredPost, error) {
		return &post.ScoredPost{
			Post:   p,
			Scores: post.ScoreBundle{AspectScore: 2.0, SemanticScore: 0.55},
			Verdict: &post.Verdict{
				IsOpportunity:  true,
				Classification: post.ClassStrongOpportunity,
				Confidence:     0.85,
				PainType:       post.PainTypeProcess,
			},
		}, nil
	}}
	r := newTestRouter(pl)

	body, _ := json.Marshal(handlers.ScoreRequest{
		Title: "Manual tracking is painful",
		Body:  "We do everything in spreadsheets.",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got post.ScoredPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2.0, got.Scores.AspectScore)
	require.NotNil(t, got.Verdict)
	assert.Equal(t, post.ClassStrongOpportunity, got.Verdict.Classification)
}

func TestScoreEndpointRejectsEmptyPost(t *testing.T) {
	r := newTestRouter(&mockPipeline{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewReader([]byte(`{"url":"u"}`)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeValidation), resp.Code)
}

func TestScoreEndpointRejectsMalformedJSON(t *testing.T) {
	r := newTestRouter(&mockPipeline{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewReader([]byte(`{`)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreEndpointMapsPipelineErrors(t *testing.T) {
	pl := &mockPipeline{scoreFn: func(context.Context, post.Post) (*post.ScoredPost, error) {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "embedding backend down")
	}}
	r := newTestRouter(pl)

	body, _ := json.Marshal(handlers.ScoreRequest{Title: "t", Body: "b"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(&mockPipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessFailsWhenDependencyDown(t *testing.T) {
	r := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.ReadinessCheck{
			"llm": func(context.Context) error {
				return errors.New(errors.ErrCodeModelUnavailable, "no backend")
			},
		}),
		Mode: gin.TestMode,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no backend")
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(&mockPipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunsEndpointsAbsentWithoutPersistence(t *testing.T) {
	r := newTestRouter(&mockPipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
