package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/davrenn/flowdraft/internal/auth"
	"github.com/davrenn/flowdraft/internal/logging"
	"github.com/davrenn/flowdraft/internal/pipeline"
	"github.com/davrenn/flowdraft/pkg/schema"
)

// convertSchemaJSON validates the conversion request payload.
const convertSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowdraft.dev/schemas/convert.json",
  "type": "object",
  "required": ["text"],
  "properties": {
    "text": { "type": "string" },
    "diagram_type": {
      "type": "string",
      "enum": ["flowchart", "sequence", "class", "usecase"]
    }
  },
  "additionalProperties": false
}`

// Deps holds the dependencies for the API server.
type Deps struct {
	Converter *pipeline.Converter
	Auth      *auth.Manager
	Logger    *slog.Logger
}

// Server exposes the conversion pipeline and account glue over HTTP.
type Server struct {
	converter *pipeline.Converter
	auth      *auth.Manager
	logger    *slog.Logger
	convertSc *jsonschema.Schema

	// inflight tracks one outstanding conversion per session token,
	// mirroring the client-side "in progress" flag. Advisory only: the
	// pipeline itself is safe under concurrent invocations.
	inflight sync.Map
}

// New creates a Server with the request schema pre-compiled.
func New(deps Deps) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(convertSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal convert schema: %w", err)
	}
	if err := compiler.AddResource("https://flowdraft.dev/schemas/convert.json", doc); err != nil {
		return nil, fmt.Errorf("add convert schema resource: %w", err)
	}
	sc, err := compiler.Compile("https://flowdraft.dev/schemas/convert.json")
	if err != nil {
		return nil, fmt.Errorf("compile convert schema: %w", err)
	}

	return &Server{
		converter: deps.Converter,
		auth:      deps.Auth,
		logger:    logger,
		convertSc: sc,
	}, nil
}

// Handler returns the HTTP handler for all API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/diagrams/flowchart", s.handleConvert(schema.DiagramTypeFlowchart))
	mux.HandleFunc("POST /api/diagrams/sequence", s.handleConvert(schema.DiagramTypeSequence))
	mux.HandleFunc("POST /api/diagrams/class", s.handleConvert(schema.DiagramTypeClass))
	mux.HandleFunc("POST /api/diagrams/usecase", s.handleConvert(schema.DiagramTypeUseCase))

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	return s.withRequestID(mux)
}

// withRequestID tags every request with a UUID for correlation logging.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		ctx := logging.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// --- response envelope ---

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := schema.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case schema.ErrCodeEmptyInput, schema.ErrCodeValidation:
		status = http.StatusBadRequest
	case schema.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case schema.ErrCodeNotFound:
		status = http.StatusNotFound
	case schema.ErrCodeConflict:
		status = http.StatusConflict
	case "":
		code = schema.ErrCodeConversion
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &apiError{Code: code, Message: err.Error()},
	})
}
