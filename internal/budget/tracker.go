// Package budget tracks cumulative token usage and spend across queries.
package budget

import "sync"

// Totals is a snapshot of the accumulated session spend.
type Totals struct {
	Queries      int     `json:"queries"`
	InputTokens  int64   `json:"total_input_tokens"`
	OutputTokens int64   `json:"total_output_tokens"`
	InputCost    float64 `json:"input_cost_usd"`
	OutputCost   float64 `json:"output_cost_usd"`
	TotalCost    float64 `json:"total_cost_usd"`
}

// Tracker is the one piece of mutable state shared across concurrent
// queries. All updates go through the mutex so concurrent pipelines never
// lose increments. It is owned by the orchestrator, not a process global.
type Tracker struct {
	mu     sync.Mutex
	totals Totals
}

// NewTracker creates a zeroed tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record adds one query's usage and cost split to the running totals.
func (t *Tracker) Record(inputTokens, outputTokens int, inputCost, outputCost float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals.Queries++
	t.totals.InputTokens += int64(inputTokens)
	t.totals.OutputTokens += int64(outputTokens)
	t.totals.InputCost += inputCost
	t.totals.OutputCost += outputCost
	t.totals.TotalCost += inputCost + outputCost
}

// Totals returns a copy of the current totals.
func (t *Tracker) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totals
}

// Reset zeroes the totals. Only an explicit operator action calls this.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals = Totals{}
}
