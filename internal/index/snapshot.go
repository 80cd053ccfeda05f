package index

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rix-ai/research-rag/internal/models"
)

// Snapshot is the on-disk JSON form of a precomputed corpus: documents plus
// the embedding model and dimensionality they were encoded with. Snapshots
// are produced by the offline embedding step, this service only reads them.
type Snapshot struct {
	Model     string            `json:"model"`
	Dimension int               `json:"dimension"`
	Documents []models.Document `json:"documents"`
}

// LoadSnapshot reads a JSON snapshot from path and validates that every
// document matches the declared dimensionality.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	if snap.Dimension <= 0 {
		return nil, fmt.Errorf("snapshot %s: dimension must be positive, got %d", path, snap.Dimension)
	}
	for _, doc := range snap.Documents {
		if len(doc.Embedding) != snap.Dimension {
			return nil, fmt.Errorf("snapshot %s: document %q has dimension %d, snapshot declares %d",
				path, doc.ID, len(doc.Embedding), snap.Dimension)
		}
	}
	return &snap, nil
}

// BuildIndex constructs a fresh index from the snapshot contents.
func (s *Snapshot) BuildIndex() (*Index, error) {
	ix := New(s.Dimension)
	if err := ix.ReplaceAll(s.Documents); err != nil {
		return nil, err
	}
	return ix, nil
}
