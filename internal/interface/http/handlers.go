package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aviato-app/aviato-match/internal/application/command"
	"github.com/aviato-app/aviato-match/internal/application/query"
	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

var validate = validator.New()

// maxBodyBytes bounds request bodies on picker commands.
const maxBodyBytes = 4 << 10

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":    "Aviato Match API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":       "/health",
			"interests":    "/api/v1/users/{id}/interests",
			"matches":      "/api/v1/users/{id}/matches",
			"availability": "/api/v1/users/{id}/availability",
			"picker":       "/api/v1/users/{id}/picker",
		},
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status": "healthy",
			"uptime": s.Uptime().String(),
		})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, status)
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCH LIST HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetMatches handles GET /api/v1/users/{id}/matches
func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetMatchesHandler == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Matches handler not configured")
		return
	}

	result, err := s.deps.GetMatchesHandler.Handle(r.Context(), query.GetMatchesQuery{UserID: r.PathValue("id")})
	if err != nil {
		s.writeDomainError(w, r, "get matches", err)
		return
	}
	if s.metrics != nil {
		s.metrics.observeMatchList(string(result.Mode))
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleGetAvailability handles GET /api/v1/users/{id}/availability
func (s *Server) handleGetAvailability(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetAvailabilityHandler == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Availability handler not configured")
		return
	}

	result, err := s.deps.GetAvailabilityHandler.Handle(r.Context(), query.GetAvailabilityQuery{UserID: r.PathValue("id")})
	if err != nil {
		s.writeDomainError(w, r, "get availability", err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleListInterests handles GET /api/v1/users/{id}/interests
func (s *Server) handleListInterests(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListInterestsHandler == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Interests handler not configured")
		return
	}

	result, err := s.deps.ListInterestsHandler.Handle(r.Context(), query.ListInterestsQuery{UserID: r.PathValue("id")})
	if err != nil {
		s.writeDomainError(w, r, "list interests", err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// PICKER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// ToggleRequest is the body of POST /api/v1/users/{id}/picker/toggle.
type ToggleRequest struct {
	Interest string `json:"interest" validate:"required,max=50"`
}

type pickerAction func(s *command.PickerService, r *http.Request, userID string) (*command.PickerView, error)

// pickerHandler adapts a picker command into an HTTP handler.
func (s *Server) pickerHandler(op string, action pickerAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Picker == nil {
			writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Picker not configured")
			return
		}

		view, err := action(s.deps.Picker, r, r.PathValue("id"))
		if s.metrics != nil {
			s.metrics.observePicker(op, err)
			if err == nil && op == "picker apply" {
				s.metrics.observeCommitted(view.Count)
			}
		}
		if err != nil {
			s.writeDomainError(w, r, op, err)
			return
		}
		writeJSON(w, r, http.StatusOK, view)
	}
}

func (s *Server) handlePickerState(w http.ResponseWriter, r *http.Request) {
	s.pickerHandler("picker state", func(p *command.PickerService, r *http.Request, id string) (*command.PickerView, error) {
		return p.Working(r.Context(), id)
	})(w, r)
}

func (s *Server) handlePickerOpen(w http.ResponseWriter, r *http.Request) {
	s.pickerHandler("picker open", func(p *command.PickerService, r *http.Request, id string) (*command.PickerView, error) {
		return p.Open(r.Context(), id)
	})(w, r)
}

func (s *Server) handlePickerToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONErrorWithDetails(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	s.pickerHandler("picker toggle", func(p *command.PickerService, r *http.Request, id string) (*command.PickerView, error) {
		return p.Toggle(r.Context(), id, req.Interest)
	})(w, r)
}

func (s *Server) handlePickerClear(w http.ResponseWriter, r *http.Request) {
	s.pickerHandler("picker clear", func(p *command.PickerService, r *http.Request, id string) (*command.PickerView, error) {
		return p.Clear(r.Context(), id)
	})(w, r)
}

func (s *Server) handlePickerApply(w http.ResponseWriter, r *http.Request) {
	s.pickerHandler("picker apply", func(p *command.PickerService, r *http.Request, id string) (*command.PickerView, error) {
		return p.Apply(r.Context(), id)
	})(w, r)
}

func (s *Server) handlePickerCancel(w http.ResponseWriter, r *http.Request) {
	s.pickerHandler("picker cancel", func(p *command.PickerService, r *http.Request, id string) (*command.PickerView, error) {
		return p.Cancel(r.Context(), id)
	})(w, r)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON reads and validates a bounded JSON body.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// writeDomainError maps domain error kinds to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var de *shared.DomainError
	message := "Internal error"
	if errors.As(err, &de) {
		message = de.Message
	}

	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, "not_found", message)
	case shared.IsValidation(err):
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", message)
	case shared.IsInvalidState(err):
		writeJSONError(w, r, http.StatusConflict, "conflict", message)
	default:
		logger.FromContext(r.Context()).Error("request failed",
			logger.Operation(op),
			logger.UserID(r.PathValue("id")),
			logger.Err(err),
		)
		writeJSONError(w, r, http.StatusInternalServerError, "internal_error", "Failed to "+op)
	}
}
