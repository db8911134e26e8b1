package genservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrenn/flowdraft/pkg/schema"
)

func newTestClient(t *testing.T) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(Config{APIKey: "test-key"}, nil)
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, schema.CodeOf(err))
}

func TestExtractValidEnvelope(t *testing.T) {
	c := newTestClient(t)

	doc, err := c.extract(context.Background(),
		`{"diagram": "graph TD\n    A --> B\n", "notes": "two nodes"}`)
	require.NoError(t, err)
	assert.Equal(t, "graph TD\n    A --> B\n", doc)
}

func TestExtractRejectsNonJSON(t *testing.T) {
	c := newTestClient(t)

	_, err := c.extract(context.Background(), "graph TD\n    A --> B\n")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeGenerationFailed, schema.CodeOf(err))
}

func TestExtractRejectsMissingDiagramField(t *testing.T) {
	c := newTestClient(t)

	_, err := c.extract(context.Background(), `{"notes": "no diagram here"}`)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeGenerationFailed, schema.CodeOf(err))
}

func TestExtractRejectsEmptyDiagram(t *testing.T) {
	c := newTestClient(t)

	for _, raw := range []string{
		`{"diagram": ""}`,
		`{"diagram": "   "}`,
		`{"diagram": 42}`,
	} {
		_, err := c.extract(context.Background(), raw)
		require.Error(t, err, "payload %s", raw)
		assert.Equal(t, schema.ErrCodeGenerationFailed, schema.CodeOf(err))
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FLOWDRAFT_OPENAI_API_KEY", "k")
	t.Setenv("FLOWDRAFT_OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("FLOWDRAFT_OPENAI_MODEL", "test-model")

	cfg := ConfigFromEnv()
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
	assert.Equal(t, "test-model", cfg.Model)
}
