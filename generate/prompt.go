package generate

import (
	"fmt"
	"strings"

	"github.com/pressgen/pressgen/store"
)

const systemPrompt = `You are a senior content writer for an evergreen reference site.
Write accurate, well-structured HTML articles. Use one <h1> title,
<h2> section headings, short paragraphs, and lists where they help.
Do not invent facts that the provided context contradicts. Output
only the article HTML, no markdown and no commentary.`

// buildPrompt assembles the user prompt for one keyword, folding in
// the retrieved Q&A snippets as grounding context.
func buildPrompt(k store.KeywordCluster, snippets []store.Snippet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write an article answering the search query: %q.\n", k.Keyword)
	if k.Intent != "" {
		fmt.Fprintf(&b, "Search intent: %s.\n", k.Intent)
	}
	if k.Cluster != "" {
		fmt.Fprintf(&b, "Topic cluster: %s.\n", k.Cluster)
	}

	if len(snippets) > 0 {
		b.WriteString("\nUse the following verified Q&A context:\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", s.Question, s.Answer)
		}
	}

	b.WriteString("Start with an <h1> containing the article title.")
	return b.String()
}
