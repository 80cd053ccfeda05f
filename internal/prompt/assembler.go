// Package prompt selects retrieved documents into a bounded context window
// and renders the generation prompt from it.
package prompt

import (
	"github.com/rix-ai/research-rag/internal/models"
)

const (
	// minExcerptChars is the smallest excerpt worth including; a document is
	// skipped when less than this fits in the remaining budget.
	minExcerptChars = 50

	// maxConsecutiveSkips stops assembly once this many documents in a row
	// fail to fit.
	maxConsecutiveSkips = 3
)

// Entry is one document admitted into the context window.
type Entry struct {
	Document  models.Document
	Excerpt   string
	Score     float64
	Truncated bool
}

// Context is the assembled, budget-bounded prompt context. Entries are in
// rank order and their excerpt sizes never exceed the configured budget.
type Context struct {
	Entries   []Entry
	UsedChars int
	Budget    int
}

// DocumentIDs returns the ids admitted into the context, in order.
func (c *Context) DocumentIDs() []string {
	ids := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		ids[i] = e.Document.ID
	}
	return ids
}

// DocumentLookup resolves a retrieval result id to its document.
type DocumentLookup func(id string) (models.Document, bool)

// Assembler applies the context-budget policy.
type Assembler struct {
	budget int
}

// NewAssembler creates an assembler with a character budget.
func NewAssembler(budgetChars int) *Assembler {
	return &Assembler{budget: budgetChars}
}

// Assemble walks results in rank order and admits each document's text while
// it fits. The highest-ranked document is always admitted, truncated if it
// alone exceeds the budget, so the model always receives some grounding when
// at least one result exists. Duplicate ids are never admitted twice.
func (a *Assembler) Assemble(results []models.RetrievalResult, lookup DocumentLookup) *Context {
	ctx := &Context{Budget: a.budget}
	seen := make(map[string]bool)
	consecutiveSkips := 0

	for _, r := range results {
		if seen[r.DocumentID] {
			continue
		}
		doc, ok := lookup(r.DocumentID)
		if !ok {
			continue
		}

		remaining := a.budget - ctx.UsedChars
		excerpt, truncated := fitExcerpt(doc.Text, remaining)

		if excerpt == "" && len(ctx.Entries) == 0 {
			// First result must be admitted even when the budget is smaller
			// than the minimum viable excerpt.
			limit := a.budget
			if limit > len(doc.Text) {
				limit = len(doc.Text)
			}
			if limit < 0 {
				limit = 0
			}
			excerpt = doc.Text[:limit]
			truncated = limit < len(doc.Text)
		}

		if excerpt == "" {
			consecutiveSkips++
			if consecutiveSkips >= maxConsecutiveSkips {
				break
			}
			continue
		}

		consecutiveSkips = 0
		seen[r.DocumentID] = true
		ctx.Entries = append(ctx.Entries, Entry{
			Document:  doc,
			Excerpt:   excerpt,
			Score:     r.Score,
			Truncated: truncated,
		})
		ctx.UsedChars += len(excerpt)
	}

	return ctx
}

// fitExcerpt returns as much of text as fits within remaining, or "" when
// less than the minimum viable excerpt would fit.
func fitExcerpt(text string, remaining int) (string, bool) {
	if len(text) <= remaining {
		return text, false
	}
	if remaining < minExcerptChars {
		return "", false
	}
	return text[:remaining], true
}
