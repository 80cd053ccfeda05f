// Package index implements the in-memory vector index the retriever searches.
//
// Documents are stored with embeddings normalized once at insertion time, so
// a search is a single dot product per entry. The index is safe for
// concurrent readers; inserts and snapshot swaps take the write lock.
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rix-ai/research-rag/internal/models"
)

var (
	// ErrDimensionMismatch is returned when an embedding does not match the
	// index dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDuplicateID is returned when inserting an id that is already present
	// without requesting overwrite.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrEmptyIndex is returned by Search when no documents are indexed.
	ErrEmptyIndex = errors.New("index is empty")

	// ErrInvalidArgument is returned for invalid search parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)

// scoreEpsilon bounds the similarity difference treated as an exact tie.
const scoreEpsilon = 1e-9

// entry pairs a document with its unit-length embedding.
type entry struct {
	doc        models.Document
	normalized []float32
}

// Index is an exact nearest-neighbor index over paper abstracts.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]entry
}

// New creates an empty index for embeddings of the given dimensionality.
func New(dimension int) *Index {
	return &Index{
		dimension: dimension,
		entries:   make(map[string]entry),
	}
}

// Dimension returns the fixed embedding dimensionality.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Insert adds a document to the index. The embedding is normalized here so
// searches do not repeat the work per query.
func (ix *Index) Insert(doc models.Document, overwrite bool) error {
	if len(doc.Embedding) != ix.dimension {
		return fmt.Errorf("%w: document %q has dimension %d, index expects %d",
			ErrDimensionMismatch, doc.ID, len(doc.Embedding), ix.dimension)
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: document id cannot be empty", ErrInvalidArgument)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.entries[doc.ID]; exists && !overwrite {
		return fmt.Errorf("%w: %q", ErrDuplicateID, doc.ID)
	}

	ix.entries[doc.ID] = entry{
		doc:        doc,
		normalized: normalize(doc.Embedding),
	}
	return nil
}

// Search returns up to k results ordered by descending cosine similarity to
// the query vector. Ties within scoreEpsilon are broken by ascending
// document id so repeated queries are byte-identical in ranking order.
func (ix *Index) Search(queryVector []float32, k int) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if len(queryVector) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			ErrDimensionMismatch, len(queryVector), ix.dimension)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 {
		return nil, ErrEmptyIndex
	}

	q := normalize(queryVector)
	results := make([]models.RetrievalResult, 0, len(ix.entries))
	for id, e := range ix.entries {
		results = append(results, models.RetrievalResult{
			DocumentID: id,
			Score:      dot(q, e.normalized),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if math.Abs(results[i].Score-results[j].Score) <= scoreEpsilon {
			return results[i].DocumentID < results[j].DocumentID
		}
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i
	}
	return results, nil
}

// Get returns the indexed document for id.
func (ix *Index) Get(id string) (models.Document, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.entries[id]
	return e.doc, ok
}

// ReplaceAll swaps in a full snapshot of documents, discarding the current
// contents. Used when a refreshed snapshot is loaded; readers never observe
// a partially loaded index.
func (ix *Index) ReplaceAll(docs []models.Document) error {
	next := make(map[string]entry, len(docs))
	for _, doc := range docs {
		if len(doc.Embedding) != ix.dimension {
			return fmt.Errorf("%w: document %q has dimension %d, index expects %d",
				ErrDimensionMismatch, doc.ID, len(doc.Embedding), ix.dimension)
		}
		if _, exists := next[doc.ID]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateID, doc.ID)
		}
		next[doc.ID] = entry{doc: doc, normalized: normalize(doc.Embedding)}
	}

	ix.mu.Lock()
	ix.entries = next
	ix.mu.Unlock()
	return nil
}

// normalize returns a unit-length copy of v. A zero vector is returned as a
// zero copy so its similarity against anything is 0.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

// dot computes the dot product of two equal-length vectors. On normalized
// inputs this is the cosine similarity.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
