// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the REST API of the service: submitting assessments, fetching
// results, invite and share links, and the free-text prediction endpoint.
// HTTP concerns stay here; business logic lives in the usecase package.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// Every response uses a uniform envelope so clients can branch on a single
// boolean instead of inspecting status codes.
type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool     `json:"success"`
	Error   apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, _ *http.Request, err error) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrConfigMissing):
		code = http.StatusServiceUnavailable
		codeStr = "CONFIG_MISSING"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		code = http.StatusServiceUnavailable
		codeStr = "UPSTREAM_TIMEOUT"
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		code = http.StatusServiceUnavailable
		codeStr = "UPSTREAM_RATE_LIMIT"
	case errors.Is(err, domain.ErrSchemaInvalid):
		code = http.StatusBadGateway
		codeStr = "SCHEMA_INVALID"
	}
	writeJSON(w, code, errorEnvelope{Success: false, Error: apiError{Code: codeStr, Message: err.Error()}})
}
