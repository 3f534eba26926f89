// Package apierrors maps the service's error taxonomy onto JSON HTTP
// responses:
//
//   - authentication failures  → 401, generic message, never retried
//   - authorization denials    → 403 when a policy predicate said no
//   - validation failures      → 422 with the first failing field
//   - dependency failures      → 500, generic message to the client,
//     full detail logged server-side
//
// The taxonomy is deliberate: an authorization failure is never
// downgraded to a validation failure or vice versa.
package apierrors

import (
	"encoding/json"
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/system/inputval"
	"go.uber.org/zap"
)

// Logger records dependency failures with request context before a
// generic response goes to the client.
type Logger struct {
	log *zap.Logger
}

// NewLogger wraps a zap logger for handler error reporting.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Unauthorized writes a 401 for missing, invalid, or expired credentials.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "unauthorized"
	}
	JSON(w, http.StatusUnauthorized, errorBody{Message: message})
}

// Forbidden writes a 403 for a policy denial.
func Forbidden(w http.ResponseWriter) {
	JSON(w, http.StatusForbidden, errorBody{Message: "Insufficient permissions"})
}

// Validation writes a 422 carrying the first failing field.
func Validation(w http.ResponseWriter, ferr *inputval.FieldError) {
	JSON(w, http.StatusUnprocessableEntity, errorBody{Message: ferr.Message, Field: ferr.Field})
}

// BadRequest writes a 400 for malformed request bodies.
func BadRequest(w http.ResponseWriter, message string) {
	if message == "" {
		message = "invalid request"
	}
	JSON(w, http.StatusBadRequest, errorBody{Message: message})
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter) {
	JSON(w, http.StatusNotFound, errorBody{Message: "not found"})
}

// Conflict writes a 409, used for duplicate-key outcomes.
func Conflict(w http.ResponseWriter, message string) {
	JSON(w, http.StatusConflict, errorBody{Message: message})
}

// Dependency logs err with context and writes a generic 500. The
// client never sees the underlying store or identity-provider error.
func (l *Logger) Dependency(w http.ResponseWriter, r *http.Request, op string, err error) {
	l.log.Error("dependency failure",
		zap.String("op", op),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	JSON(w, http.StatusInternalServerError, errorBody{Message: "Internal server error"})
}
