package agent

import (
	"regexp"
	"strings"
)

// ResponseFilter rewrites model output before parsing. Filters run in
// order; the default strips <think> reasoning blocks.
type ResponseFilter func(string) string

var (
	thinkPattern     = regexp.MustCompile(`(?s)<think>.*?</think>`)
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// StripThinkTags removes <think>...</think> reasoning blocks, which some
// models emit before their visible answer.
func StripThinkTags(text string) string {
	return thinkPattern.ReplaceAllString(text, "")
}

// CleanResponse applies the filters, collapses runs of three or more
// blank lines to one, and trims surrounding whitespace.
func CleanResponse(text string, filters ...ResponseFilter) string {
	for _, filter := range filters {
		text = filter(text)
	}
	text = excessBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
