package generate

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	codeFence = regexp.MustCompile("(?s)^```(?:html)?\\s*(.*?)\\s*```$")
	h1Pattern = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
)

// newSanitizer builds the HTML policy applied to model output. It
// allows the structural elements articles use and strips scripts,
// inline event handlers, and styles.
func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("h1", "h2", "h3", "section", "figure", "figcaption")
	return p
}

// cleanHTML strips markdown code fences the model sometimes wraps its
// output in, then sanitizes.
func cleanHTML(p *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(trimmed); m != nil {
		trimmed = m[1]
	}
	return strings.TrimSpace(p.Sanitize(trimmed))
}

// extractTitle pulls the first <h1> text out of the article, falling
// back to the keyword when the model did not emit one.
func extractTitle(articleHTML, fallback string) string {
	if m := h1Pattern.FindStringSubmatch(articleHTML); m != nil {
		title := strings.TrimSpace(html.UnescapeString(stripTags(m[1])))
		if title != "" {
			return title
		}
	}
	return strings.TrimSpace(fallback)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
