package genservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/itchyny/gojq"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	openai "github.com/sashabaranov/go-openai"

	"github.com/davrenn/flowdraft/pkg/schema"
)

// envelopeSchemaJSON is the JSON Schema the remote response envelope must
// satisfy. Embedded as a constant to avoid filesystem dependencies.
const envelopeSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowdraft.dev/schemas/envelope.json",
  "type": "object",
  "required": ["diagram"],
  "properties": {
    "diagram": {
      "type": "string",
      "minLength": 1
    },
    "notes": {
      "type": "string"
    }
  },
  "additionalProperties": true
}`

// diagramQuery extracts the diagram field from the validated envelope.
const diagramQuery = ".diagram"

const systemPrompt = `You convert process descriptions into Mermaid diagram definitions.
Respond with a JSON object of the form {"diagram": "<mermaid source>"}.
The diagram must begin with a graph orientation header such as "graph TD".`

// Config holds the remote generation service settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ConfigFromEnv reads the service settings from the environment.
func ConfigFromEnv() Config {
	return Config{
		APIKey:  os.Getenv("FLOWDRAFT_OPENAI_API_KEY"),
		BaseURL: os.Getenv("FLOWDRAFT_OPENAI_BASE_URL"),
		Model:   os.Getenv("FLOWDRAFT_OPENAI_MODEL"),
	}
}

// OpenAIClient calls a chat-completion endpoint and extracts a diagram
// document from its JSON envelope. Every failure mode — transport error,
// malformed JSON, schema violation, absent field — maps to GENERATION_FAILED
// so the pipeline can fall back.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	query    *gojq.Code
	envelope *jsonschema.Schema
	logger   *slog.Logger
}

// NewOpenAIClient builds the client, compiling the extraction query and the
// envelope schema once.
func NewOpenAIClient(cfg Config, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, schema.NewError(schema.ErrCodeValidation, "generation service API key is empty")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	parsed, err := gojq.Parse(diagramQuery)
	if err != nil {
		return nil, fmt.Errorf("parse diagram query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("compile diagram query: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(envelopeSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal envelope schema: %w", err)
	}
	if err := compiler.AddResource("https://flowdraft.dev/schemas/envelope.json", doc); err != nil {
		return nil, fmt.Errorf("add envelope schema resource: %w", err)
	}
	envelope, err := compiler.Compile("https://flowdraft.dev/schemas/envelope.json")
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		query:    code,
		envelope: envelope,
		logger:   logger,
	}, nil
}

// Generate sends the description to the chat-completion endpoint and returns
// the extracted diagram document.
func (c *OpenAIClient) Generate(ctx context.Context, text string, diagramType schema.DiagramType) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Diagram type: %s\n\n%s", diagramType, text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", schema.NewError(schema.ErrCodeGenerationFailed, "generation service unreachable").WithCause(err)
	}
	if len(resp.Choices) == 0 {
		return "", schema.NewError(schema.ErrCodeGenerationFailed, "generation service returned no choices")
	}

	return c.extract(ctx, resp.Choices[0].Message.Content)
}

// extract validates the envelope and pulls the diagram field out of it.
func (c *OpenAIClient) extract(ctx context.Context, raw string) (string, error) {
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", schema.NewError(schema.ErrCodeGenerationFailed, "generation response is not JSON").WithCause(err)
	}

	if err := c.envelope.Validate(payload); err != nil {
		return "", schema.NewError(schema.ErrCodeGenerationFailed, "generation response envelope invalid").WithCause(err)
	}

	iter := c.query.RunWithContext(ctx, payload)
	v, ok := iter.Next()
	if !ok {
		return "", schema.NewError(schema.ErrCodeGenerationFailed, "diagram field absent from response")
	}
	if err, isErr := v.(error); isErr {
		return "", schema.NewError(schema.ErrCodeGenerationFailed, "diagram extraction failed").WithCause(err)
	}

	diagram, ok := v.(string)
	if !ok || strings.TrimSpace(diagram) == "" {
		return "", schema.NewError(schema.ErrCodeGenerationFailed, "diagram field empty in response")
	}

	c.logger.DebugContext(ctx, "diagram extracted from remote response",
		slog.Int("bytes", len(diagram)))
	return diagram, nil
}
