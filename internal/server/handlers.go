package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/davrenn/flowdraft/internal/logging"
	"github.com/davrenn/flowdraft/pkg/schema"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

// handleConvert returns the conversion handler for one diagram type.
func (s *Server) handleConvert(diagramType schema.DiagramType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, schema.NewError(schema.ErrCodeValidation, "request body is not JSON").WithCause(err))
			return
		}
		if err := s.convertSc.Validate(payload); err != nil {
			s.writeError(w, schema.NewError(schema.ErrCodeValidation, "invalid conversion request").WithCause(err))
			return
		}

		var req schema.ConvertRequest
		raw, _ := json.Marshal(payload)
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeError(w, schema.NewError(schema.ErrCodeValidation, "invalid conversion request").WithCause(err))
			return
		}

		// One outstanding conversion per account, mirroring the UI's submit
		// guard. A presented token must resolve to a live session; anonymous
		// requests are not limited.
		if token := bearerToken(r); token != "" {
			user, err := s.auth.Verify(ctx, token)
			if err != nil {
				s.writeError(w, err)
				return
			}
			if _, busy := s.inflight.LoadOrStore(user.ID, struct{}{}); busy {
				s.writeError(w, schema.NewError(schema.ErrCodeConflict, "a conversion is already in progress"))
				return
			}
			defer s.inflight.Delete(user.ID)
		}

		result, err := s.converter.Convert(ctx, req.Text, diagramType)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.logger.InfoContext(ctx, "conversion accepted",
			slog.String("type", string(diagramType)),
			slog.String("source", string(result.Source)))

		s.writeJSON(w, http.StatusOK, schema.ConvertResponse{
			Diagram:   result.Document,
			Source:    result.Source,
			Warning:   result.Warning,
			RequestID: logging.RequestID(ctx),
		})
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, schema.NewError(schema.ErrCodeValidation, "request body is not JSON").WithCause(err))
		return
	}

	u, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, schema.NewError(schema.ErrCodeValidation, "request body is not JSON").WithCause(err))
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		s.writeError(w, schema.NewError(schema.ErrCodeUnauthorized, "missing session token"))
		return
	}
	if err := s.auth.Logout(r.Context(), token); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"logged_out": true})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
