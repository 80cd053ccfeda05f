package models

// DocumentMetadata carries the bibliographic fields attached to a paper
// abstract when it was collected.
type DocumentMetadata struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Category  string   `json:"category"`
	Year      int      `json:"year"`
	SourceURL string   `json:"source_url,omitempty"`
}

// Document is a single indexed paper abstract. Documents are created by the
// offline indexing step and are read-only at query time.
type Document struct {
	ID        string           `json:"id"`
	Text      string           `json:"text"`
	Embedding []float32        `json:"embedding"`
	Metadata  DocumentMetadata `json:"metadata"`
}

// FormatAuthors renders the author list the way the corpus collector did:
// up to three names, then "et al.".
func (m DocumentMetadata) FormatAuthors() string {
	if len(m.Authors) == 0 {
		return ""
	}
	names := m.Authors
	suffix := ""
	if len(names) > 3 {
		names = names[:3]
		suffix = " et al."
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out + suffix
}
