package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
)

// ErrorBuilder helps construct structured errors with context
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]any
	requestID string
}

// NewError creates a new error builder
func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{
		errType: errType,
		message: message,
		context: make(map[string]any),
	}
}

// WithContext adds context information to the error
func (eb *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	eb.context[key] = value
	return eb
}

// WithRequestID adds request ID to the error
func (eb *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	eb.requestID = requestID
	return eb
}

// WithCause adds the underlying cause error
func (eb *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	if err != nil {
		eb.context["cause"] = err.Error()
	}
	return eb
}

// Build creates the final APIError
func (eb *ErrorBuilder) Build() APIError {
	ae := APIError{
		Type:      eb.errType,
		Message:   eb.message,
		RequestID: eb.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if len(eb.context) > 0 {
		ae.Context = eb.context
	}
	return ae
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *log.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleError maps err onto a status code and writes it. Validation
// failures from the domain packages become 400s, unknown games 404s.
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())

	var apiErr APIError
	if errors.As(err, &apiErr) {
		eh.respond(w, r, statusFor(apiErr.Type), apiErr)
		return
	}

	errType := classify(err)
	apiErr = NewError(errType, err.Error()).
		WithRequestID(requestID).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method).
		Build()
	eh.respond(w, r, statusFor(errType), apiErr)
}

// HandleValidationError handles validation-specific errors
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	apiErr := NewError(ErrTypeValidation, fmt.Sprintf("Validation failed: %s", message)).
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("field", field).
		WithContext("path", r.URL.Path).
		Build()
	eh.respond(w, r, http.StatusBadRequest, apiErr)
}

// HandleUnavailable reports a feature that needs a component the server
// was started without.
func (eh *ErrorHandler) HandleUnavailable(w http.ResponseWriter, r *http.Request, component string) {
	apiErr := NewError(ErrTypeServiceUnavailable, fmt.Sprintf("%s is not configured", component)).
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("component", component).
		Build()
	eh.respond(w, r, http.StatusServiceUnavailable, apiErr)
}

// classify maps domain errors onto error types.
func classify(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidMode),
		errors.Is(err, game.ErrInvalidPlayers),
		errors.Is(err, simulate.ErrInvalidGames),
		errors.Is(err, simulate.ErrInvalidAccuracy),
		errors.Is(err, simulate.ErrInvalidScript):
		return ErrTypeValidation
	case errors.Is(err, store.ErrNotFound):
		return ErrTypeGameNotFound
	case errors.Is(err, simulate.ErrNoHistory):
		return ErrTypeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTypeTimeout
	}
	return ErrTypeInternal
}

func statusFor(errType string) int {
	switch errType {
	case ErrTypeInvalidParams, ErrTypeValidation:
		return http.StatusBadRequest
	case ErrTypeGameNotFound:
		return http.StatusNotFound
	case ErrTypeTimeout:
		return http.StatusRequestTimeout
	case ErrTypeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (eh *ErrorHandler) respond(w http.ResponseWriter, r *http.Request, status int, apiErr APIError) {
	eh.logError(r, apiErr, status)
	writeErrorResponse(w, status, apiErr)
}

// logError logs the error with a level derived from its category
func (eh *ErrorHandler) logError(r *http.Request, apiErr APIError, status int) {
	category := GetErrorCategory(apiErr.Type)
	level := "ERROR"
	if category == CategoryValidation || status < 500 {
		level = "WARN"
	}
	eh.logger.Printf(
		"error_occurred level=%s type=%s category=%s status=%d request_id=%s path=%s message=%q",
		level, apiErr.Type, category, status, apiErr.RequestID, r.URL.Path, apiErr.Message,
	)
}

// writeErrorResponse writes the error response as JSON
func writeErrorResponse(w http.ResponseWriter, status int, apiErr APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Trivia-Version", Version)
	w.Header().Set("X-Error-Type", apiErr.Type)
	w.Header().Set("X-Error-Category", string(GetErrorCategory(apiErr.Type)))
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// RecoveryHandler provides panic recovery with structured error logging
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				eh.logger.Printf(
					"panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr,
				)
				apiErr := NewError(ErrTypeInternal, "Internal server error").
					WithRequestID(requestID).
					WithContext("path", r.URL.Path).
					Build()
				writeErrorResponse(w, http.StatusInternalServerError, apiErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
