package mermaid

import (
	"regexp"
	"strings"
)

var (
	// An arrow whose dashes and head were separated by a line break.
	splitArrow = regexp.MustCompile(`--[ \t]*\n[ \t]*>`)
	// An edge label whose closing pipe drifted onto the next line.
	splitEdgeLabel = regexp.MustCompile(`(-->\|[^|\n]*)\n[ \t]*\|`)
	// A header line with trailing diagram content on it.
	crowdedHeader = regexp.MustCompile(`(?m)^(graph[ \t]+[A-Z]{2})[ \t]+(\S)`)
)

// NormalizeForRender applies the textual touch-ups required before a
// document is handed to the rendering engine: line endings are normalized,
// arrow tokens and edge labels split across line breaks are rejoined, and
// the orientation header is forced onto its own line. Applying it twice
// yields the same output as applying it once.
func NormalizeForRender(doc string) string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\r", "\n")

	doc = splitArrow.ReplaceAllString(doc, "-->")
	doc = splitEdgeLabel.ReplaceAllString(doc, "$1|")
	doc = crowdedHeader.ReplaceAllString(doc, "$1\n    $2")

	return doc
}
