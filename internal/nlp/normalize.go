package nlp

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// fillerPrefixes are leading token sequences stripped from a clause before it
// becomes a node label. Ordered longest-first so compound prefixes win over
// their suffixes.
var fillerPrefixes = [][]string{
	{"the", "system", "will"},
	{"the", "system", "must"},
	{"the", "user", "will"},
	{"the", "user", "must"},
	{"system", "will"},
	{"system", "must"},
	{"user", "will"},
	{"user", "must"},
	{"and", "then"},
	{"then"},
	{"next"},
	{"first"},
	{"finally"},
	{"subsequently"},
	{"to"},
	{"the"},
	{"a"},
	{"an"},
}

// NormalizeAction turns a clause into a short title-cased imperative phrase.
// It never returns an empty string: when stripping consumes the whole clause,
// the clause's first meaningful word is used instead.
func NormalizeAction(c Clause) string {
	tokens := strings.Fields(c.Text)
	tokens = stripFillers(tokens)

	if len(tokens) == 0 {
		return titleWord(firstMeaningfulWord(c.Text))
	}
	return titleWords(tokens)
}

// stripFillers repeatedly removes leading filler prefixes until none match.
func stripFillers(tokens []string) []string {
	for {
		stripped := false
		for _, prefix := range fillerPrefixes {
			if hasPrefixFold(tokens, prefix) {
				tokens = tokens[len(prefix):]
				stripped = true
				break
			}
		}
		if !stripped {
			return tokens
		}
	}
}

func hasPrefixFold(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if !strings.EqualFold(tokens[i], p) {
			return false
		}
	}
	return true
}

// firstMeaningfulWord picks the first verb or noun token of the text, falling
// back to the first token of any kind. POS tags come from prose; when tagging
// fails the plain first field is used.
func firstMeaningfulWord(text string) string {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err == nil {
		for _, tok := range doc.Tokens() {
			if strings.HasPrefix(tok.Tag, "VB") || strings.HasPrefix(tok.Tag, "NN") {
				return tok.Text
			}
		}
	}
	fields := strings.Fields(text)
	if len(fields) > 0 {
		return fields[0]
	}
	return "Process"
}

// titleWords title-cases every word, matching the presentation style of node
// labels ("collect user data" -> "Collect User Data").
func titleWords(tokens []string) string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = titleWord(t)
	}
	return strings.Join(out, " ")
}

func titleWord(w string) string {
	runes := []rune(w)
	if len(runes) == 0 {
		return w
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
