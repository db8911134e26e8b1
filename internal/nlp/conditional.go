package nlp

import (
	"regexp"
	"strings"
)

// ConditionalBranch describes one if/then[/else] span found in a sentence.
// Lead carries the action phrases preceding the "if" keyword, one normalized
// label per comma clause; Then and Else are already normalized label phrases,
// Else is empty when no alternative was stated.
type ConditionalBranch struct {
	Lead      []string
	Condition string
	Then      string
	Else      string
}

// Ordered patterns; the first match wins. Nested conditionals are not
// recursed into: an embedded "if" ends up flattened into the surrounding
// group, which is a documented limitation.
var conditionalPatterns = []*regexp.Regexp{
	// [lead] if <cond> then <then> else|otherwise <else>
	regexp.MustCompile(`(?i)^(?:(.*?)\s+)?if\s+(.+?)\s+then\s+(.+?)\s+(?:else|otherwise)[,\s]+(.+)$`),
	// [lead] if <cond> then <then>
	regexp.MustCompile(`(?i)^(?:(.*?)\s+)?if\s+(.+?)\s+then\s+(.+)$`),
	// if <cond>, <then> else|otherwise <else>  (comma form)
	regexp.MustCompile(`(?i)^if\s+(.+?),\s*(.+?)\s+(?:else|otherwise)[,\s]+(.+)$`),
	// if <cond>, <then>  (comma form, no alternative)
	regexp.MustCompile(`(?i)^if\s+(.+?),\s*(.+)$`),
}

// copulas mark a condition that already reads as a question body.
var copulas = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "has": {}, "have": {},
	"can": {}, "should": {}, "would": {}, "do": {}, "does": {},
}

// DetectConditional scans a sentence span for if/then/else structure. The
// boolean is false when the span holds no conditional and should be treated
// as a run of linear actions. Call it on sentence spans (SegmentSentences),
// not comma clauses: the comma forms need the whole sentence intact.
func DetectConditional(c Clause) (ConditionalBranch, bool) {
	for i, pat := range conditionalPatterns {
		m := pat.FindStringSubmatch(c.Text)
		if m == nil {
			continue
		}

		var br ConditionalBranch
		var lead string
		switch i {
		case 0:
			lead = m[1]
			br = ConditionalBranch{Condition: m[2], Then: m[3], Else: m[4]}
		case 1:
			lead = m[1]
			br = ConditionalBranch{Condition: m[2], Then: m[3]}
		case 2:
			br = ConditionalBranch{Condition: m[1], Then: m[2], Else: m[3]}
		case 3:
			br = ConditionalBranch{Condition: m[1], Then: m[2]}
		}

		br.Condition = FormatCondition(br.Condition)
		for _, lc := range Segment(lead) {
			br.Lead = append(br.Lead, NormalizeAction(lc))
		}
		br.Then = NormalizeAction(Clause{Text: br.Then, Offset: c.Offset})
		if br.Else != "" {
			br.Else = NormalizeAction(Clause{Text: br.Else, Offset: c.Offset})
		}
		return br, true
	}
	return ConditionalBranch{}, false
}

// FormatCondition folds and/or joined sub-conditions into one question
// phrase and appends a question mark when missing.
func FormatCondition(cond string) string {
	cond = strings.TrimSpace(cond)
	cond = strings.TrimSuffix(cond, "?")

	// Fold boolean connectives into a single condition string.
	folded := regexp.MustCompile(`(?i)\s+and\s+`).ReplaceAllString(cond, " & ")
	folded = regexp.MustCompile(`(?i)\s+or\s+`).ReplaceAllString(folded, " / ")

	if hasCopula(folded) {
		return folded + "?"
	}
	return "Is " + folded + "?"
}

func hasCopula(s string) bool {
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if _, ok := copulas[w]; ok {
			return true
		}
	}
	return false
}
