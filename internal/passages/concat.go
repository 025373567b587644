package passages

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

const (
	// PassageDelimiter separates concatenated passages; it is the only
	// representation of subject-relevant text handed to downstream
	// classification, so the seam stays visible.
	PassageDelimiter = "\n---\n"
	// TruncationMarker is appended whenever the character budget cuts the
	// concatenation short.
	TruncationMarker = " [truncated]"
)

// Concat joins all passages for a subject into one bounded string.
// budget <= 0 means unbounded.
func Concat(passages []Passage, budget int) string {
	if len(passages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, strings.TrimSpace(p.Text))
	}
	joined := strings.Join(parts, PassageDelimiter)
	if budget <= 0 || len(joined) <= budget {
		return joined
	}
	return joined[:budget] + TruncationMarker
}

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

// StripLinks keeps link text and removes the URLs themselves.
func StripLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return bareURLPattern.ReplaceAllString(input, "")
}

// FlattenMarkdown renders manifesto markdown to plain text before
// segmentation: markdown structure is noise to the trigger search, and
// raw URLs poison keyword scoring.
func FlattenMarkdown(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := htmlTagPattern.ReplaceAllString(string(rendered), "\n")
	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return StripLinks(strings.Join(lines, "\n"))
}
