package nlp

import "strings"

// Clause is a punctuation-delimited fragment of the input description.
// Offset is the byte offset of the fragment's first character in the
// original text.
type Clause struct {
	Text   string
	Offset int
}

// clauseBoundary reports whether r terminates a clause.
func clauseBoundary(r rune) bool {
	switch r {
	case ',', '.', ';', ':':
		return true
	}
	return false
}

// sentenceBoundary reports whether r terminates a sentence span. Commas are
// not sentence boundaries: they stay inside the span so comma-form
// conditionals survive until conditional detection has seen them.
func sentenceBoundary(r rune) bool {
	switch r {
	case '.', ';', ':':
		return true
	}
	return false
}

// Segment splits raw text into ordered, trimmed, non-empty clauses.
// Segmenting the same text twice yields the same sequence.
func Segment(text string) []Clause {
	return split(text, clauseBoundary)
}

// SegmentSentences splits raw text into sentence spans, keeping commas
// inside each span.
func SegmentSentences(text string) []Clause {
	return split(text, sentenceBoundary)
}

func split(text string, boundary func(rune) bool) []Clause {
	var clauses []Clause
	start := 0

	flush := func(end int) {
		fragment := text[start:end]
		trimmed := strings.TrimSpace(fragment)
		if trimmed != "" {
			lead := len(fragment) - len(strings.TrimLeft(fragment, " \t\r\n"))
			clauses = append(clauses, Clause{Text: trimmed, Offset: start + lead})
		}
	}

	for i, r := range text {
		if boundary(r) {
			flush(i)
			start = i + 1
		}
	}
	flush(len(text))

	return clauses
}
