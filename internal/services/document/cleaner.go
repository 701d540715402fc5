// File: internal/services/document/cleaner.go
package document

import (
	"regexp"
	"strings"
)

var (
	ruleFillerLines = regexp.MustCompile(`\n[.\-_ ]{5,}\n`)
	rulePunctRuns   = regexp.MustCompile(`[.\-_]{2,}`)
	ruleNewlineRuns = regexp.MustCompile(`\n+`)
	ruleSpaceRuns   = regexp.MustCompile(` +`)
)

// CleanText normalizes extracted page text. Rules apply in order: drop lines
// that are only runs of dots/dashes/underscores/spaces, collapse remaining
// punctuation runs into a space, collapse newline runs, collapse space runs,
// trim. Pure and deterministic; knows nothing about document structure.
func CleanText(text string) string {
	text = ruleFillerLines.ReplaceAllString(text, "\n")
	text = rulePunctRuns.ReplaceAllString(text, " ")
	text = ruleNewlineRuns.ReplaceAllString(text, "\n")
	text = ruleSpaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
