package compose

import (
	"regexp"
	"strings"
)

var (
	rangePattern      = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanForAudio prepares free text for speech synthesis: numeric ranges
// like "60-75" are spoken as "60 to 75" and whitespace runs collapse to
// a single space. Applying it twice is a no-op.
func CleanForAudio(text string) string {
	text = rangePattern.ReplaceAllString(text, "$1 to $2")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
