package transcript

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLineRun  = regexp.MustCompile(`\n\s*\n`)
)

// CleanText normalizes text: runs of whitespace collapse to single spaces,
// leading/trailing whitespace is stripped, and multiple blank lines collapse
// to one. Cleaning is idempotent: cleaning already-clean text is a no-op.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = blankLineRun.ReplaceAllString(text, "\n")

	return text
}
