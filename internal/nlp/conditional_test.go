package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConditionalFullForm(t *testing.T) {
	br, ok := DetectConditional(Clause{Text: "User login if credentials valid then grant access else show error"})
	require.True(t, ok)

	assert.Equal(t, []string{"User Login"}, br.Lead)
	assert.Equal(t, "Is credentials valid?", br.Condition)
	assert.Equal(t, "Grant Access", br.Then)
	assert.Equal(t, "Show Error", br.Else)
}

func TestDetectConditionalNoElse(t *testing.T) {
	br, ok := DetectConditional(Clause{Text: "if payment received then ship the order"})
	require.True(t, ok)

	assert.Empty(t, br.Lead)
	assert.Equal(t, "Is payment received?", br.Condition)
	assert.Equal(t, "Ship The Order", br.Then)
	assert.Empty(t, br.Else)
}

func TestDetectConditionalOtherwise(t *testing.T) {
	br, ok := DetectConditional(Clause{Text: "if stock is available then reserve item otherwise notify buyer"})
	require.True(t, ok)

	assert.Equal(t, "stock is available?", br.Condition)
	assert.Equal(t, "Reserve Item", br.Then)
	assert.Equal(t, "Notify Buyer", br.Else)
}

func TestDetectConditionalCommaForm(t *testing.T) {
	br, ok := DetectConditional(Clause{Text: "if the file exists, open it else create it"})
	require.True(t, ok)

	assert.Equal(t, "Is the file exists?", br.Condition)
	assert.Equal(t, "Open It", br.Then)
	assert.Equal(t, "Create It", br.Else)
}

func TestDetectConditionalCommaFormNoElse(t *testing.T) {
	br, ok := DetectConditional(Clause{Text: "if payment received, send a receipt"})
	require.True(t, ok)

	assert.Equal(t, "Is payment received?", br.Condition)
	assert.Equal(t, "Send A Receipt", br.Then)
	assert.Empty(t, br.Else)
}

func TestDetectConditionalMultiClauseLead(t *testing.T) {
	// A lead with comma clauses becomes one normalized step per clause.
	br, ok := DetectConditional(Clause{Text: "First collect data, then validate input, if valid then save else report"})
	require.True(t, ok)

	assert.Equal(t, []string{"Collect Data", "Validate Input"}, br.Lead)
	assert.Equal(t, "Is valid?", br.Condition)
	assert.Equal(t, "Save", br.Then)
	assert.Equal(t, "Report", br.Else)
}

func TestDetectConditionalCaseInsensitive(t *testing.T) {
	br, ok := DetectConditional(Clause{Text: "IF token valid THEN proceed ELSE reject"})
	require.True(t, ok)
	assert.Equal(t, "Proceed", br.Then)
	assert.Equal(t, "Reject", br.Else)
}

func TestDetectConditionalPlainClause(t *testing.T) {
	_, ok := DetectConditional(Clause{Text: "validate the uploaded document"})
	assert.False(t, ok)
}

func TestDetectConditionalNestedFlattens(t *testing.T) {
	// A second embedded "if" does not recurse; the first span wins and the
	// remainder folds into the branch arms.
	br, ok := DetectConditional(Clause{Text: "if a then b if c then d"})
	require.True(t, ok)
	assert.Equal(t, "Is a?", br.Condition)
	assert.Empty(t, br.Else)
}

func TestFormatCondition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"credentials valid", "Is credentials valid?"},
		{"the user is active", "the user is active?"},
		{"the user is active?", "the user is active?"},
		{"amount > 10 and stock > 0", "Is amount > 10 & stock > 0?"},
		{"cached or fresh", "Is cached / fresh?"},
		{"can retry", "can retry?"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCondition(tt.in))
		})
	}
}
