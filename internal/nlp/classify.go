package nlp

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/davrenn/flowdraft/pkg/schema"
)

// ClassifierRule grades input size. When is an expr condition evaluated
// against {chars, words}; the first matching rule wins.
type ClassifierRule struct {
	Level   schema.WarningLevel
	When    string
	Message string
}

// DefaultClassifierRules are the stock advisory tiers. Order matters:
// most severe first.
var DefaultClassifierRules = []ClassifierRule{
	{
		Level:   schema.WarningLevelSevere,
		When:    "chars > 3000",
		Message: "Description is very long; the generated diagram may omit detail. Consider splitting the process.",
	},
	{
		Level:   schema.WarningLevelWarning,
		When:    "chars > 2000",
		Message: "Description is long; complex passages may be flattened in the diagram.",
	},
	{
		Level:   schema.WarningLevelInfo,
		When:    "chars > 1000",
		Message: "Long description detected; generation may take a moment.",
	},
}

type compiledRule struct {
	rule ClassifierRule
	prg  *vm.Program
}

// Classifier assigns an advisory Warning tier to raw input text.
// It never blocks or alters downstream processing.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier compiles the given rules, or DefaultClassifierRules when none
// are provided.
func NewClassifier(rules ...ClassifierRule) (*Classifier, error) {
	if len(rules) == 0 {
		rules = DefaultClassifierRules
	}

	compiled := make([]compiledRule, 0, len(rules))
	env := map[string]any{"chars": 0, "words": 0}
	for _, r := range rules {
		prg, err := expr.Compile(r.When, expr.Env(env), expr.AsBool())
		if err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"compile classifier rule %q: %s", r.When, err.Error()).WithCause(err)
		}
		compiled = append(compiled, compiledRule{rule: r, prg: prg})
	}
	return &Classifier{rules: compiled}, nil
}

// Classify returns the first matching rule's warning, or nil when the input
// trips no rule.
func (c *Classifier) Classify(text string) *schema.Warning {
	env := map[string]any{
		"chars": len([]rune(text)),
		"words": len(strings.Fields(text)),
	}
	for _, cr := range c.rules {
		out, err := vm.Run(cr.prg, env)
		if err != nil {
			continue
		}
		if matched, ok := out.(bool); ok && matched {
			return &schema.Warning{Level: cr.rule.Level, Message: cr.rule.Message}
		}
	}
	return nil
}
