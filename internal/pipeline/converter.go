package pipeline

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/davrenn/flowdraft/internal/graph"
	"github.com/davrenn/flowdraft/internal/logging"
	"github.com/davrenn/flowdraft/internal/mermaid"
	"github.com/davrenn/flowdraft/internal/nlp"
	"github.com/davrenn/flowdraft/pkg/schema"
)

// Generator is the remote generation service boundary. Implementations
// return a diagram-description string or an error; both unreachability and
// unusable content surface as GENERATION_FAILED.
type Generator interface {
	Generate(ctx context.Context, text string, diagramType schema.DiagramType) (string, error)
}

// Result is the outcome of one conversion request.
type Result struct {
	Document string
	Source   schema.DocumentSource
	Warning  *schema.Warning
}

// ConverterDeps holds the dependencies for a Converter. Generator may be nil,
// in which case every request runs the local deterministic pipeline.
type ConverterDeps struct {
	Generator  Generator
	Classifier *nlp.Classifier
	Fallback   mermaid.FallbackOptions
	Logger     *slog.Logger
}

// Converter runs the text-to-diagram pipeline. It is stateless between
// invocations: each request owns its own graph and document, so independent
// calls may run concurrently.
type Converter struct {
	gen        Generator
	classifier *nlp.Classifier
	fallback   mermaid.FallbackOptions
	logger     *slog.Logger
}

// NewConverter creates a Converter. A nil Classifier is replaced with the
// default rule table.
func NewConverter(deps ConverterDeps) (*Converter, error) {
	classifier := deps.Classifier
	if classifier == nil {
		var err error
		classifier, err = nlp.NewClassifier()
		if err != nil {
			return nil, err
		}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &Converter{
		gen:        deps.Generator,
		classifier: classifier,
		fallback:   deps.Fallback,
		logger:     logger,
	}, nil
}

// Convert turns a free-text description into a validated diagram document.
// Empty or whitespace-only input is the only surfaced failure; every other
// path recovers locally and resolves to a document that passes validation.
func (c *Converter) Convert(ctx context.Context, text string, diagramType schema.DiagramType) (*Result, error) {
	if diagramType == "" {
		diagramType = schema.DiagramTypeFlowchart
	}

	if strings.TrimSpace(text) == "" {
		return nil, schema.NewError(schema.ErrCodeEmptyInput, "input text is empty")
	}

	warning := c.classifier.Classify(text)
	if warning != nil {
		c.logger.InfoContext(ctx, "input classified",
			slog.String("level", string(warning.Level)),
			slog.Int("chars", len([]rune(text))))
	}

	doc, source := c.produce(ctx, text, diagramType)
	doc = mermaid.NormalizeForRender(doc)

	return &Result{Document: doc, Source: source, Warning: warning}, nil
}

// produce resolves a document through remote generation, the local pipeline,
// repair, or fallback — in that order of preference.
func (c *Converter) produce(ctx context.Context, text string, diagramType schema.DiagramType) (string, schema.DocumentSource) {
	state := StateIdle

	if c.gen != nil {
		remote, err := c.gen.Generate(ctx, text, diagramType)
		if err == nil {
			state = c.transition(ctx, state, StateValidating)
			if mermaid.Validate(remote) == nil {
				c.transition(ctx, state, StateAccepted)
				return remote, schema.SourceRemote
			}

			state = c.transition(ctx, state, StateRepairing)
			repaired := mermaid.Clean(remote)
			if repaired != mermaid.FallbackDocument && mermaid.Validate(repaired) == nil {
				c.transition(ctx, state, StateAccepted)
				return repaired, schema.SourceRemote
			}
			// A wholesale substitution means nothing remote survived the
			// repair; continue down the ladder instead of passing the
			// minimal document off as remote output.
			c.logger.WarnContext(ctx, "remote document unsalvageable, continuing locally")
		} else {
			c.logger.WarnContext(ctx, "remote generation failed, continuing locally",
				slog.String("error", err.Error()))
		}
	}

	if diagramType != schema.DiagramTypeFlowchart {
		// Only the flowchart path has local conversion logic; other types
		// fall straight through to the linear fallback.
		c.logger.InfoContext(ctx, "no local converter for diagram type",
			slog.String("type", string(diagramType)))
		c.transition(ctx, StateFallbackRequested, StateAccepted)
		return c.fallbackFromText(ctx, text), schema.SourceFallback
	}

	doc, err := c.convertLocal(ctx, text)
	if err == nil {
		return doc, schema.SourceLocal
	}
	c.logger.ErrorContext(ctx, "local conversion failed, using fallback",
		slog.String("error", err.Error()))

	c.transition(ctx, StateFallbackRequested, StateAccepted)
	return c.fallbackFromText(ctx, text), schema.SourceFallback
}

// convertLocal runs the deterministic segment/build/emit pipeline. Any panic
// during conversion is recovered into a CONVERSION_ERROR so the caller can
// fall back instead of crashing.
func (c *Converter) convertLocal(ctx context.Context, text string) (doc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = schema.NewErrorf(schema.ErrCodeConversion, "conversion panicked: %v", r)
		}
	}()

	state := c.transition(ctx, StateIdle, StateSegmenting)
	sentences := nlp.SegmentSentences(text)

	state = c.transition(ctx, state, StateBuilding)
	b := graph.NewBuilder()
	for _, sentence := range sentences {
		// Conditionals are detected on the whole sentence span so comma
		// forms stay intact; only non-conditional spans are split into
		// comma clauses.
		if br, ok := nlp.DetectConditional(sentence); ok {
			for _, lead := range br.Lead {
				b.Step(lead)
			}
			b.Branch(br.Condition, br.Then, br.Else)
			continue
		}
		for _, clause := range nlp.Segment(sentence.Text) {
			b.Step(nlp.NormalizeAction(clause))
		}
	}
	g := b.Finish()

	if verr := g.Validate(); verr != nil {
		return "", verr
	}

	state = c.transition(ctx, state, StateEmitting)
	doc = mermaid.Render(g)

	state = c.transition(ctx, state, StateValidating)
	if verr := mermaid.Validate(doc); verr != nil {
		return "", verr
	}
	c.transition(ctx, state, StateAccepted)

	return doc, nil
}

// fallbackFromText emits the linear fallback chain from the leading clauses,
// degrading to the fixed minimal document when even that fails validation.
func (c *Converter) fallbackFromText(ctx context.Context, text string) string {
	clauses := nlp.Segment(text)
	texts := make([]string, len(clauses))
	for i, cl := range clauses {
		texts[i] = cl.Text
	}

	doc := mermaid.FromClauses(texts, c.fallback)
	if mermaid.Validate(doc) != nil {
		c.logger.ErrorContext(ctx, "fallback document invalid, substituting minimal diagram")
		return mermaid.FallbackDocument
	}
	return doc
}

// transition moves the request to the next state, logging the step. Illegal
// transitions are logged and taken anyway: state tracking is observability,
// never control flow.
func (c *Converter) transition(ctx context.Context, from, to State) State {
	if !canTransition(from, to) {
		c.logger.WarnContext(ctx, "unexpected pipeline transition",
			slog.String("from", string(from)), slog.String("to", string(to)))
	}
	c.logger.DebugContext(logging.WithStage(ctx, string(to)), "pipeline stage")
	return to
}
