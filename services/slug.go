package services

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const wordsPerMinute = 200

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug turns a title into a URL-safe identifier: accents are folded,
// the result is lowercased, every run of other characters becomes one hyphen,
// and hyphens are trimmed from both ends. The output only contains [a-z0-9-].
func DeriveSlug(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}

// IsSlug reports whether s is already in the form DeriveSlug produces
func IsSlug(s string) bool {
	return s != "" && DeriveSlug(s) == s
}

// WordCount counts runs of non-whitespace
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// EstimateReadTime returns the minutes needed to read content at 200 words per minute, never less than 1
func EstimateReadTime(content string) int {
	minutes := int(math.Ceil(float64(WordCount(content)) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
