package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
)

type ApiResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// Health represents the health check response
type Health struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Timestamp    string            `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

const version = "1.0.0"

// healthCheckHandler reports the service and each dependency check
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := Health{
		Status:    "ok",
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	code := http.StatusOK

	if len(s.checks) > 0 {
		health.Dependencies = make(map[string]string, len(s.checks))

		for name, check := range s.checks {
			if err := check(ctx); err != nil {
				s.logger.Warn("Health check failed", "dependency", name, "error", err)
				health.Dependencies[name] = "unavailable"
				health.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			health.Dependencies[name] = "ok"
		}
	}

	s.respondWithJSON(w, code, ApiResponse{
		Success: code == http.StatusOK,
		Data:    health,
	})
}

// listQuery reads q, status, page and limit from the query string
func listQuery(r *http.Request) (models.ListQuery, error) {
	values := r.URL.Query()

	page, limit, err := pagingParams(values)

	if err != nil {
		return models.ListQuery{}, err
	}

	return models.NewListQuery(values.Get("q"), values.Get("status"), page, limit, models.MaxPageSize), nil
}

// pagingParams parses page and limit; a page beyond models.MaxPage is rejected
func pagingParams(values url.Values) (int, int, error) {
	page, err := intParam(values.Get("page"), "page")

	if err != nil {
		return 0, 0, err
	}

	if page > models.MaxPage {
		return 0, 0, apperrors.NewInvalidArgumentError(fmt.Sprintf("page must be at most %d", models.MaxPage))
	}

	limit, err := intParam(values.Get("limit"), "limit")

	if err != nil {
		return 0, 0, err
	}

	return page, limit, nil
}

// intParam parses an optional integer; empty means zero
func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)

	if err != nil {
		return 0, apperrors.NewInvalidArgumentError(name + " must be an integer")
	}

	return n, nil
}

// handleError maps an application error onto the response. Persistence and
// unknown errors are logged with their cause and reported generically.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.StatusCode(err)

	if code >= http.StatusInternalServerError {
		var cause interface{}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			cause = appErr.Context["cause"]
		}
		s.logger.Error("Request failed",
			"error", err,
			"cause", cause,
			"method", r.Method,
			"path", r.URL.Path)
	}

	s.respondWithError(w, code, apperrors.PublicMessage(err))
}

// respondWithError sends a JSON response with an error message
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, ApiResponse{
		Success: false,
		Error:   message,
	})
}

// respondWithJSON sends a JSON response
func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)

	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
