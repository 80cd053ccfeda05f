package prompt

import (
	"fmt"
	"strings"
)

// NoResultsAnswer is returned in place of a generated answer when nothing in
// the corpus cleared the relevance threshold.
const NoResultsAnswer = "No relevant results found in the database for your query. " +
	"Please try rephrasing or using different keywords."

// Build renders the generation prompt: assistant instructions, the numbered
// source context, and the user query last.
func Build(query string, ctx *Context) string {
	var b strings.Builder

	b.WriteString(`You are an AI research assistant with expertise in academic literature.

Based on the following search results from the research database, provide a comprehensive and accurate answer to the user's query.

IMPORTANT INSTRUCTIONS:
1. Base your answer primarily on the provided context
2. Cite specific papers when relevant using [Author et al., Year] format
3. If the context doesn't contain enough information, acknowledge this limitation
4. Be concise but thorough (aim for 200-400 words)
5. Use academic language appropriate for researchers
6. Highlight key findings, methodologies, or contributions when relevant

SEARCH CONTEXT:
`)
	b.WriteString(FormatContext(ctx))
	b.WriteString("\nUSER QUERY: ")
	b.WriteString(query)
	b.WriteString("\n\nRESPONSE:")

	return b.String()
}

// FormatContext renders the admitted documents as a numbered source list.
func FormatContext(ctx *Context) string {
	var b strings.Builder

	b.WriteString("## Relevant Research Papers:\n\n")
	for i, e := range ctx.Entries {
		meta := e.Document.Metadata
		title := meta.Title
		if title == "" {
			title = e.Document.ID
		}
		fmt.Fprintf(&b, "%d. **%s** (id: %s)\n", i+1, title, e.Document.ID)
		if authors := meta.FormatAuthors(); authors != "" {
			fmt.Fprintf(&b, "   Authors: %s\n", authors)
		}
		if meta.Year != 0 {
			fmt.Fprintf(&b, "   Year: %d\n", meta.Year)
		}
		fmt.Fprintf(&b, "   Abstract: %s", e.Excerpt)
		if e.Truncated {
			b.WriteString("...")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Relevance: %.2f\n\n", e.Score)
	}

	return b.String()
}
