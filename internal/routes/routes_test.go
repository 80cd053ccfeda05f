package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/app"
	"github.com/rix-ai/research-rag/internal/config"
	"github.com/rix-ai/research-rag/internal/embedding"
	"github.com/rix-ai/research-rag/internal/index"
	"github.com/rix-ai/research-rag/internal/models"
)

// writeSnapshot embeds a tiny corpus with the stub embedder so queries that
// reuse the document text score at the top of the index.
func writeSnapshot(t *testing.T, dimension int) string {
	t.Helper()

	embedder := embedding.NewStubEmbedder(dimension)
	texts := map[string]string{
		"paper-a": "quantum computing algorithms for optimization problems",
		"paper-b": "deep learning for natural language processing",
	}

	snap := index.Snapshot{Model: "stub", Dimension: dimension}
	for id, text := range texts {
		vec, err := embedder.Embed(context.Background(), text)
		require.NoError(t, err)
		snap.Documents = append(snap.Documents, models.Document{
			ID:        id,
			Text:      text,
			Embedding: vec,
			Metadata:  models.DocumentMetadata{Title: text, Year: 2023},
		})
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.New()
	require.NoError(t, err)
	cfg.Index.SnapshotPath = writeSnapshot(t, cfg.Index.Dimension)

	deps, err := app.NewDependencies(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRoutes(deps))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutesEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("readiness with loaded index", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health/ready")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("answer then stats", func(t *testing.T) {
		body := `{"query":"quantum computing algorithms for optimization problems"}`
		resp, err := http.Post(srv.URL+"/api/v1/answer", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, 200, resp.StatusCode)

		var answer struct {
			Data models.AnswerResult `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&answer))
		assert.Equal(t, models.StatusSuccess, answer.Data.Status)
		assert.NotEmpty(t, answer.Data.Answer)
		require.NotEmpty(t, answer.Data.Sources)
		assert.Equal(t, "paper-a", answer.Data.Sources[0].DocumentID)

		statsResp, err := http.Get(srv.URL + "/api/v1/stats")
		require.NoError(t, err)
		defer statsResp.Body.Close()
		require.Equal(t, 200, statsResp.StatusCode)

		var stats struct {
			Data struct {
				Queries int `json:"queries"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
		assert.Equal(t, 1, stats.Data.Queries)
	})

	t.Run("stats reset", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/v1/stats/reset", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, 200, resp.StatusCode)

		var stats struct {
			Data struct {
				Queries int `json:"queries"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, 0, stats.Data.Queries)
	})

	t.Run("missing query is 400", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/v1/answer", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("unknown route is 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 404, resp.StatusCode)
	})
}
