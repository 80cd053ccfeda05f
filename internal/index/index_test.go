package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rix-ai/research-rag/internal/models"
)

func doc(id string, embedding ...float32) models.Document {
	return models.Document{
		ID:        id,
		Text:      "abstract for " + id,
		Embedding: embedding,
		Metadata:  models.DocumentMetadata{Title: "paper " + id},
	}
}

func TestIndex_Insert(t *testing.T) {
	t.Run("rejects dimension mismatch", func(t *testing.T) {
		ix := New(3)
		err := ix.Insert(doc("a", 1, 0), false)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, 0, ix.Len())
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Insert(doc("a", 1, 0), false))
		err := ix.Insert(doc("a", 0, 1), false)
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("overwrite replaces existing entry", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Insert(doc("a", 1, 0), false))
		require.NoError(t, ix.Insert(doc("a", 0, 1), true))

		results, err := ix.Search([]float32{0, 1}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		ix := New(2)
		err := ix.Insert(doc("", 1, 0), false)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestIndex_Search(t *testing.T) {
	t.Run("empty index", func(t *testing.T) {
		ix := New(2)
		_, err := ix.Search([]float32{1, 0}, 5)
		assert.ErrorIs(t, err, ErrEmptyIndex)
	})

	t.Run("invalid k", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Insert(doc("a", 1, 0), false))
		for _, k := range []int{0, -1} {
			_, err := ix.Search([]float32{1, 0}, k)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Insert(doc("a", 1, 0), false))
		_, err := ix.Search([]float32{1, 0, 0}, 1)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("returns min(k, size) results with non-increasing scores", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Insert(doc("a", 1, 0), false))
		require.NoError(t, ix.Insert(doc("b", 0.9, 0.1), false))
		require.NoError(t, ix.Insert(doc("c", 0, 1), false))

		results, err := ix.Search([]float32{1, 0}, 10)
		require.NoError(t, err)
		require.Len(t, results, 3)

		seen := map[string]bool{}
		for i, r := range results {
			assert.Equal(t, i, r.Rank)
			assert.False(t, seen[r.DocumentID], "duplicate document id %s", r.DocumentID)
			seen[r.DocumentID] = true
			if i > 0 {
				assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
			}
		}

		top, err := ix.Search([]float32{1, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, top, 2)
		assert.Equal(t, "a", top[0].DocumentID)
	})

	t.Run("exact ties break by ascending id", func(t *testing.T) {
		ix := New(2)
		// Identical embeddings, inserted out of id order.
		require.NoError(t, ix.Insert(doc("zeta", 1, 0), false))
		require.NoError(t, ix.Insert(doc("alpha", 1, 0), false))
		require.NoError(t, ix.Insert(doc("mid", 1, 0), false))

		for i := 0; i < 5; i++ {
			results, err := ix.Search([]float32{1, 0}, 3)
			require.NoError(t, err)
			require.Len(t, results, 3)
			assert.Equal(t, "alpha", results[0].DocumentID)
			assert.Equal(t, "mid", results[1].DocumentID)
			assert.Equal(t, "zeta", results[2].DocumentID)
		}
	})

	t.Run("zero query vector scores zero everywhere", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Insert(doc("a", 1, 0), false))
		results, err := ix.Search([]float32{0, 0}, 1)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, results[0].Score, 1e-9)
	})
}

func TestIndex_ReplaceAll(t *testing.T) {
	ix := New(2)
	require.NoError(t, ix.Insert(doc("old", 1, 0), false))

	err := ix.ReplaceAll([]models.Document{doc("x", 0, 1), doc("y", 1, 0)})
	require.NoError(t, err)

	assert.Equal(t, 2, ix.Len())
	_, ok := ix.Get("old")
	assert.False(t, ok)

	t.Run("rejects bad snapshot without clobbering current contents", func(t *testing.T) {
		err := ix.ReplaceAll([]models.Document{doc("bad", 1, 0, 0)})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, 2, ix.Len())
	})
}
