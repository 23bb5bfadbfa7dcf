package importer

import (
	"regexp"
	"strings"
)

var (
	slugApostrophes = regexp.MustCompile("[''`]")
	slugInvalid     = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces      = regexp.MustCompile(`\s+`)
	slugHyphens     = regexp.MustCompile(`-+`)
)

const maxSlugLen = 100

// Slugify turns a keyword into a URL path segment. Apostrophes are
// dropped rather than replaced so "elon's" becomes "elons".
func Slugify(keyword string) string {
	slug := strings.ToLower(keyword)
	slug = slugApostrophes.ReplaceAllString(slug, "")
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return strings.Trim(slug, "-")
}
