package models

// RetrievalResult is one ranked hit from a vector index search. Rank is a
// dense ordering by descending score; ties are broken by document id so
// repeated queries against an unchanged index are reproducible.
type RetrievalResult struct {
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// Usage holds token counts for a single generation call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// AnswerStatus distinguishes a grounded answer from the no-results variant.
type AnswerStatus string

const (
	StatusSuccess   AnswerStatus = "success"
	StatusNoResults AnswerStatus = "no_results"
)

// StageLatency records how long a single pipeline stage took.
type StageLatency struct {
	Stage     string  `json:"stage"`
	LatencyMs float64 `json:"latency_ms"`
}

// Source describes one cited document as returned to the caller.
type Source struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Authors    string  `json:"authors,omitempty"`
	Year       int     `json:"year,omitempty"`
	Category   string  `json:"category,omitempty"`
	SourceURL  string  `json:"source_url,omitempty"`
	Score      float64 `json:"score"`
	Truncated  bool    `json:"truncated,omitempty"`
}

// AnswerResult is the structured outcome of one answer() invocation. It is
// query-local and never persisted by this service.
type AnswerResult struct {
	QueryID        string         `json:"query_id"`
	Status         AnswerStatus   `json:"status"`
	Answer         string         `json:"answer"`
	Sources        []Source       `json:"sources"`
	CitedIDs       []string       `json:"cited_document_ids"`
	Usage          Usage          `json:"token_usage"`
	CostEstimate   float64        `json:"cost_estimate"`
	CostUnknown    bool           `json:"cost_unknown,omitempty"`
	Model          string         `json:"model"`
	RetrievedCount int            `json:"retrieved_count"`
	LatencyMs      float64        `json:"latency_ms"`
	Stages         []StageLatency `json:"stage_latencies"`
}
