package mermaid

import (
	"regexp"
	"strings"

	"github.com/davrenn/flowdraft/pkg/schema"
)

// headerPattern matches a graph orientation header line.
var headerPattern = regexp.MustCompile(`^graph\s+(TD|TB|LR|RL|BT)\b`)

// syntaxTokens are the structural tokens at least one line must carry for a
// document to count as a diagram at all.
var syntaxTokens = []string{"[", "]", "{", "}", "(", ")", "-->"}

// Validate checks a document for minimal structural well-formedness: an
// orientation header must be present and at least one line must carry node
// or edge syntax. Validation is purely syntactic; it never inspects graph
// connectivity.
func Validate(doc string) error {
	if strings.TrimSpace(doc) == "" {
		return schema.NewError(schema.ErrCodeInvalidDocument, "document is empty")
	}

	lines := strings.Split(doc, "\n")

	hasHeader := false
	for _, line := range lines {
		if headerPattern.MatchString(strings.TrimSpace(line)) {
			hasHeader = true
			break
		}
	}
	if !hasHeader {
		return schema.NewError(schema.ErrCodeInvalidDocument, "missing graph orientation header")
	}

	for _, line := range lines {
		for _, tok := range syntaxTokens {
			if strings.Contains(line, tok) {
				return nil
			}
		}
	}
	return schema.NewError(schema.ErrCodeInvalidDocument, "no node or edge syntax found")
}
