package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxReviewLength = 5000
	MaxQueryLength  = 200
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims, strips null bytes and caps input at maxRunes runes.
func SanitizeString(input string, maxRunes int) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		input = string([]rune(input)[:maxRunes])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeReviewContent is applied to review text before it is stored.
func SanitizeReviewContent(input string) string {
	return strings.TrimSpace(SanitizeHTML(SanitizeString(input, MaxReviewLength)))
}

// SanitizeQuery trims a search query, strips null bytes and caps its length.
// Markup is left alone because the query is only matched, never rendered.
func SanitizeQuery(input string) string {
	return SanitizeString(input, MaxQueryLength)
}
