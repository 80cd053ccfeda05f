// Package embedding maps query text to the fixed-length vectors the index
// stores. The corpus embeddings themselves are precomputed offline; at query
// time only the user's question is embedded.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable wraps any provider-side embedding failure. The retriever
// does not retry on it; retries, if any, belong to the caller.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Embedder generates an L2-normalized embedding for a single text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	ModelInfo() string
}
