package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/embedding"
	"github.com/rix-ai/research-rag/internal/index"
	"github.com/rix-ai/research-rag/internal/models"
)

// fixedEmbedder returns a preset vector for any query.
type fixedEmbedder struct {
	vector []float32
	err    error
}

func (f *fixedEmbedder) Embed(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fixedEmbedder) Dimension() int    { return len(f.vector) }
func (f *fixedEmbedder) ModelInfo() string { return "fixed" }

func buildIndex(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New(2)
	docs := []models.Document{
		{ID: "a", Text: "quantum entanglement study", Embedding: []float32{1, 0}},
		{ID: "b", Text: "classical mechanics review", Embedding: []float32{0, 1}},
		{ID: "c", Text: "quantum computing hardware", Embedding: []float32{0.95, 0.31}},
	}
	for _, d := range docs {
		require.NoError(t, ix.Insert(d, false))
	}
	return ix
}

func TestRetriever_Retrieve(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("filters below threshold and truncates to k", func(t *testing.T) {
		r := NewRetriever(&fixedEmbedder{vector: []float32{1, 0}}, buildIndex(t), logger)

		results, err := r.Retrieve(ctx, "quantum research", 2, 0.3)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a", results[0].DocumentID)
		assert.Equal(t, "c", results[1].DocumentID)
		assert.Equal(t, 0, results[0].Rank)
		assert.Equal(t, 1, results[1].Rank)
	})

	t.Run("threshold above any achievable score returns empty, not error", func(t *testing.T) {
		r := NewRetriever(&fixedEmbedder{vector: []float32{1, 0}}, buildIndex(t), logger)

		results, err := r.Retrieve(ctx, "anything", 5, 1.1)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty query rejected before embedding", func(t *testing.T) {
		emb := &fixedEmbedder{err: embedding.ErrUnavailable}
		r := NewRetriever(emb, buildIndex(t), logger)

		_, err := r.Retrieve(ctx, "", 5, 0.3)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("invalid k rejected before embedding", func(t *testing.T) {
		r := NewRetriever(&fixedEmbedder{vector: []float32{1, 0}}, buildIndex(t), logger)
		_, err := r.Retrieve(ctx, "q", 0, 0.3)
		assert.ErrorIs(t, err, index.ErrInvalidArgument)
	})

	t.Run("embedding failure surfaces unretried", func(t *testing.T) {
		r := NewRetriever(&fixedEmbedder{err: embedding.ErrUnavailable}, buildIndex(t), logger)
		_, err := r.Retrieve(ctx, "q", 5, 0.3)
		assert.ErrorIs(t, err, embedding.ErrUnavailable)
	})

	t.Run("empty index surfaces ErrEmptyIndex", func(t *testing.T) {
		r := NewRetriever(&fixedEmbedder{vector: []float32{1, 0}}, index.New(2), logger)
		_, err := r.Retrieve(ctx, "q", 5, 0.3)
		assert.ErrorIs(t, err, index.ErrEmptyIndex)
	})
}
