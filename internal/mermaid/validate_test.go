package mermaid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrenn/flowdraft/pkg/schema"
)

func TestValidateAcceptsWellFormed(t *testing.T) {
	doc := "graph TD\n    A[\"Start\"] --> B[\"End\"]\n"
	assert.NoError(t, Validate(doc))
}

func TestValidateAcceptsOtherOrientations(t *testing.T) {
	for _, orient := range []string{"TD", "TB", "LR", "RL", "BT"} {
		doc := "graph " + orient + "\n    A --> B\n"
		assert.NoError(t, Validate(doc), orient)
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	for _, doc := range []string{"", "   ", "\n\n"} {
		err := Validate(doc)
		require.Error(t, err)
		assert.Equal(t, schema.ErrCodeInvalidDocument, schema.CodeOf(err))
	}
}

func TestValidateRejectsMissingHeader(t *testing.T) {
	err := Validate("A[\"Start\"] --> B[\"End\"]\n")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeInvalidDocument, schema.CodeOf(err))
}

func TestValidateRejectsHeaderOnly(t *testing.T) {
	err := Validate("graph TD\njust prose, no diagram syntax\n")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeInvalidDocument, schema.CodeOf(err))
}

func TestValidateRejectsUnknownOrientation(t *testing.T) {
	err := Validate("graph XY\n    A --> B\n")
	require.Error(t, err)
}

func TestValidateFallbackDocument(t *testing.T) {
	assert.NoError(t, Validate(FallbackDocument))
}
