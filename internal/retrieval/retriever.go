// Package retrieval turns a query into a ranked, threshold-filtered set of
// documents from the vector index.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/embedding"
	"github.com/rix-ai/research-rag/internal/index"
	"github.com/rix-ai/research-rag/internal/models"
)

// overfetchFactor controls how many candidates are requested from the index
// beyond k, so threshold filtering still leaves enough results.
const overfetchFactor = 3

// ErrEmptyQuery is returned before any external call when the query is blank.
var ErrEmptyQuery = errors.New("query text cannot be empty")

// Retriever embeds the query and searches the index. It performs no retries;
// an embedding failure surfaces as embedding.ErrUnavailable.
type Retriever struct {
	embedder embedding.Embedder
	index    *index.Index
	logger   *zap.Logger
}

// NewRetriever creates a retriever over the given index.
func NewRetriever(embedder embedding.Embedder, ix *index.Index, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    ix,
		logger:   logger,
	}
}

// Retrieve returns up to k results scoring at least minScore, in rank order.
// An empty result set is a valid outcome, not an error: it means nothing in
// the corpus cleared the threshold.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, minScore float64) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", index.ErrInvalidArgument, k)
	}
	queryVector, err := r.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.Search(queryVector, k, minScore)
}

// EmbedQuery obtains the query vector from the embedding provider. Failures
// surface unretried as embedding.ErrUnavailable.
func (r *Retriever) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	queryVector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return queryVector, nil
}

// Search over-fetches candidates from the index, drops results below
// minScore, and truncates to k preserving rank order.
func (r *Retriever) Search(queryVector []float32, k int, minScore float64) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", index.ErrInvalidArgument, k)
	}

	candidates, err := r.index.Search(queryVector, k*overfetchFactor)
	if err != nil {
		if errors.Is(err, index.ErrEmptyIndex) {
			return nil, err
		}
		return nil, fmt.Errorf("searching index: %w", err)
	}

	filtered := make([]models.RetrievalResult, 0, k)
	for _, c := range candidates {
		if c.Score < minScore {
			continue
		}
		c.Rank = len(filtered)
		filtered = append(filtered, c)
		if len(filtered) == k {
			break
		}
	}

	r.logger.Debug("retrieval complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(filtered)),
		zap.Float64("min_score", minScore))

	return filtered, nil
}

// Document resolves a retrieval result back to its indexed document.
func (r *Retriever) Document(id string) (models.Document, bool) {
	return r.index.Get(id)
}
