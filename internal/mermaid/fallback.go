package mermaid

import (
	"strings"

	"github.com/davrenn/flowdraft/internal/graph"
)

// FallbackOptions bound the size of a generated fallback diagram. The stock
// limits come from the product defaults; both are tunable.
type FallbackOptions struct {
	MaxClauses  int
	MaxLabelLen int
}

func (o FallbackOptions) withDefaults() FallbackOptions {
	if o.MaxClauses <= 0 {
		o.MaxClauses = 5
	}
	if o.MaxLabelLen <= 0 {
		o.MaxLabelLen = 30
	}
	return o
}

// FromClauses emits a strictly linear diagram from the leading clauses of an
// input, used when the primary pipeline or the remote service fails. Labels
// are truncated and stripped of quote characters. The result always passes
// Validate.
func FromClauses(clauses []string, opts FallbackOptions) string {
	opts = opts.withDefaults()

	if len(clauses) > opts.MaxClauses {
		clauses = clauses[:opts.MaxClauses]
	}

	b := graph.NewBuilder()
	for _, c := range clauses {
		label := fallbackLabel(c, opts.MaxLabelLen)
		if label == "" {
			continue
		}
		b.Step(label)
	}
	return Render(b.Finish())
}

// fallbackLabel truncates a clause to the label limit and replaces internal
// quote characters, which would break the surrounding label delimiters.
func fallbackLabel(c string, maxLen int) string {
	c = strings.TrimSpace(c)
	c = strings.NewReplacer(`"`, "'", "`", "'").Replace(c)
	runes := []rune(c)
	if len(runes) > maxLen {
		c = string(runes[:maxLen])
	}
	return strings.TrimSpace(c)
}
