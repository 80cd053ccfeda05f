package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// StubEmbedder is a deterministic, offline embedder used in demo mode and
// tests. It hashes word tokens into a fixed number of buckets, which is
// enough to make lexically similar texts score higher than unrelated ones.
// It is not a substitute for a real embedding model.
type StubEmbedder struct {
	dim int
}

// NewStubEmbedder creates a stub embedder of the given dimensionality.
func NewStubEmbedder(dimension int) *StubEmbedder {
	return &StubEmbedder{dim: dimension}
}

// Embed produces a normalized bag-of-words hash vector.
func (e *StubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[int(h.Sum32())%e.dim]++
	}

	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if sum > 0 {
		inv := float32(1.0 / math.Sqrt(sum))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// Dimension returns the embedding dimensionality.
func (e *StubEmbedder) Dimension() int {
	return e.dim
}

// ModelInfo identifies the stub.
func (e *StubEmbedder) ModelInfo() string {
	return "stub-hash-v1"
}
