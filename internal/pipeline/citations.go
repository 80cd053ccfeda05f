package pipeline

import (
	"strings"
	"unicode"

	"github.com/rix-ai/research-rag/internal/prompt"
)

// citedIDs applies the citation heuristic: context documents whose id
// (matched as a whole token) or title (matched as a substring) appears in
// the answer text. When the answer names none of them, every context
// document is attributed, since it all served as grounding. This is lexical
// matching, not semantic verification.
func citedIDs(answer string, promptCtx *prompt.Context) []string {
	lower := strings.ToLower(answer)
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ':' && r != '.' && r != '-'
	}) {
		tokens[strings.Trim(tok, ":.-")] = true
	}

	var mentioned []string
	for _, e := range promptCtx.Entries {
		id := strings.ToLower(e.Document.ID)
		title := strings.ToLower(e.Document.Metadata.Title)
		if tokens[id] || (title != "" && strings.Contains(lower, title)) {
			mentioned = append(mentioned, e.Document.ID)
		}
	}
	if len(mentioned) > 0 {
		return mentioned
	}
	return promptCtx.DocumentIDs()
}
