package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rix-ai/research-rag/internal/models"
	"github.com/rix-ai/research-rag/internal/prompt"
)

func contextWith(docs ...models.Document) *prompt.Context {
	ctx := &prompt.Context{}
	for _, d := range docs {
		ctx.Entries = append(ctx.Entries, prompt.Entry{Document: d, Excerpt: d.Text})
	}
	return ctx
}

func TestCitedIDs(t *testing.T) {
	docs := []models.Document{
		{ID: "arxiv:2401.01234", Metadata: models.DocumentMetadata{Title: "Entanglement Bounds"}},
		{ID: "arxiv:2312.09876", Metadata: models.DocumentMetadata{Title: "Hardware Advances"}},
	}

	tests := []struct {
		name   string
		answer string
		want   []string
	}{
		{
			name:   "id mentioned as token",
			answer: "See arxiv:2401.01234 for the main result.",
			want:   []string{"arxiv:2401.01234"},
		},
		{
			name:   "title mentioned",
			answer: "The paper on Hardware Advances is most relevant.",
			want:   []string{"arxiv:2312.09876"},
		},
		{
			name:   "both mentioned, context order preserved",
			answer: "Entanglement Bounds builds on Hardware Advances.",
			want:   []string{"arxiv:2401.01234", "arxiv:2312.09876"},
		},
		{
			name:   "nothing mentioned falls back to all context documents",
			answer: "The literature broadly supports this conclusion.",
			want:   []string{"arxiv:2401.01234", "arxiv:2312.09876"},
		},
		{
			name:   "matching is case-insensitive",
			answer: "the paper ARXIV:2401.01234 shows this.",
			want:   []string{"arxiv:2401.01234"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, citedIDs(tt.answer, contextWith(docs...)))
		})
	}

	t.Run("short ids do not match inside unrelated words", func(t *testing.T) {
		ctx := contextWith(
			models.Document{ID: "A", Metadata: models.DocumentMetadata{Title: "Alpha Paper"}},
			models.Document{ID: "C", Metadata: models.DocumentMetadata{Title: "Gamma Paper"}},
		)
		// "a" and "c" appear as letters but never as standalone tokens.
		got := citedIDs("Recent work covers entanglement and hardware.", ctx)
		assert.Equal(t, []string{"A", "C"}, got) // fallback, not spurious matches
	})
}
