package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	err := NewError(ErrCodeEmptyInput, "input text is empty")

	assert.Equal(t, ErrCodeEmptyInput, CodeOf(err))
	assert.Contains(t, err.Error(), "input text is empty")
	assert.Contains(t, err.Error(), ErrCodeEmptyInput)
}

func TestNewErrorf(t *testing.T) {
	err := NewErrorf(ErrCodeInvalidDocument, "graph has %d start nodes", 2)
	assert.Contains(t, err.Error(), "graph has 2 start nodes")
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(ErrCodeGenerationFailed, "generation service unreachable").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeGenerationFailed, CodeOf(err))
}

func TestCodeOfWrappedError(t *testing.T) {
	inner := NewError(ErrCodeConflict, "username taken")
	wrapped := fmt.Errorf("register: %w", inner)

	assert.Equal(t, ErrCodeConflict, CodeOf(wrapped))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Empty(t, CodeOf(errors.New("plain error")))
	assert.Empty(t, CodeOf(nil))
}

func TestWithDetails(t *testing.T) {
	err := NewError(ErrCodeValidation, "invalid request").
		WithDetails(map[string]any{"field": "text"})

	var fe *FlowError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "text", fe.Details["field"])
}
