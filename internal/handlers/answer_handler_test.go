package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/embedding"
	"github.com/rix-ai/research-rag/internal/generation"
	"github.com/rix-ai/research-rag/internal/models"
	"github.com/rix-ai/research-rag/internal/pipeline"
)

type fakeAnswerService struct {
	lastQuery string
	lastOpts  pipeline.Options
	result    *models.AnswerResult
	err       error
}

func (f *fakeAnswerService) Answer(_ context.Context, query string, opts pipeline.Options) (*models.AnswerResult, error) {
	f.lastQuery = query
	f.lastOpts = opts
	return f.result, f.err
}

func postAnswer(t *testing.T, h *AnswerHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/answer", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleAnswer(rec, req)
	return rec
}

func TestHandleAnswer(t *testing.T) {
	logger := zap.NewNop()

	t.Run("success passes options through", func(t *testing.T) {
		svc := &fakeAnswerService{
			result: &models.AnswerResult{
				QueryID: "q-1",
				Status:  models.StatusSuccess,
				Answer:  "Quantum computing shows promise.",
				Sources: []models.Source{{DocumentID: "paper-a", Score: 0.9}},
			},
		}
		h := NewAnswerHandler(svc, logger)

		rec := postAnswer(t, h, `{"query":"quantum computing","k":3,"min_score":0.5,"model":"gpt-3.5-turbo"}`)

		assert.Equal(t, 200, rec.Code)
		assert.Equal(t, "quantum computing", svc.lastQuery)
		assert.Equal(t, 3, svc.lastOpts.K)
		assert.InDelta(t, 0.5, svc.lastOpts.MinScore, 1e-9)
		assert.Equal(t, "gpt-3.5-turbo", svc.lastOpts.Model)

		var body struct {
			Data models.AnswerResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "q-1", body.Data.QueryID)
		assert.Equal(t, models.StatusSuccess, body.Data.Status)
	})

	t.Run("no results is still 200", func(t *testing.T) {
		svc := &fakeAnswerService{
			result: &models.AnswerResult{
				QueryID: "q-2",
				Status:  models.StatusNoResults,
				Sources: []models.Source{},
			},
		}
		h := NewAnswerHandler(svc, logger)

		rec := postAnswer(t, h, `{"query":"underwater basket weaving"}`)
		assert.Equal(t, 200, rec.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		h := NewAnswerHandler(&fakeAnswerService{}, logger)
		rec := postAnswer(t, h, `{not json`)
		assert.Equal(t, 400, rec.Code)
	})

	t.Run("missing query is 400", func(t *testing.T) {
		h := NewAnswerHandler(&fakeAnswerService{}, logger)
		rec := postAnswer(t, h, `{"k":3}`)
		assert.Equal(t, 400, rec.Code)
		assert.Contains(t, rec.Body.String(), "Query is required")
	})

	t.Run("min_score out of range is 400", func(t *testing.T) {
		h := NewAnswerHandler(&fakeAnswerService{}, logger)
		rec := postAnswer(t, h, `{"query":"x","min_score":1.5}`)
		assert.Equal(t, 400, rec.Code)
	})

	t.Run("generation failure maps to 502 with stage detail", func(t *testing.T) {
		svc := &fakeAnswerService{
			err: &pipeline.StageError{
				Stage:    pipeline.StageGenerating,
				Attempts: 3,
				Err:      &generation.CallError{Attempts: 3, Err: generation.NewError("openai", generation.KindRateLimited, "throttled", nil)},
			},
		}
		h := NewAnswerHandler(svc, logger)

		rec := postAnswer(t, h, `{"query":"quantum computing"}`)
		assert.Equal(t, 502, rec.Code)
		assert.Contains(t, rec.Body.String(), "generating")
	})

	t.Run("embedding outage maps to 503", func(t *testing.T) {
		svc := &fakeAnswerService{
			err: &pipeline.StageError{
				Stage:    pipeline.StageEmbedding,
				Attempts: 1,
				Err:      embedding.ErrUnavailable,
			},
		}
		h := NewAnswerHandler(svc, logger)

		rec := postAnswer(t, h, `{"query":"quantum computing"}`)
		assert.Equal(t, 503, rec.Code)
	})
}
