package errors

import (
	"errors"
	"net/http"
)

// Standard error types
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrPersistence         = errors.New("persistence error")
)

// GenericInternalMessage is what callers see for persistence failures.
const GenericInternalMessage = "Internal server error"

// AppError represents a structured application error with context
type AppError struct {
	Err        error
	StatusCode int
	Message    string
	Context    map[string]interface{}
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new AppError with the given parameters
func NewAppError(err error, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Context:    make(map[string]interface{}),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusNotFound)
}

// NewInvalidArgumentError creates an invalid argument error
func NewInvalidArgumentError(message string) *AppError {
	return NewAppError(ErrInvalidArgument, message, http.StatusBadRequest)
}

// NewUpstreamError creates an error for a failing external dependency
func NewUpstreamError(message string) *AppError {
	return NewAppError(ErrUpstreamUnavailable, message, http.StatusBadGateway)
}

// NewPersistenceError wraps a store failure. The cause is kept for logging
// only; Error() returns the generic message.
func NewPersistenceError(cause error) *AppError {
	appErr := NewAppError(ErrPersistence, GenericInternalMessage, http.StatusInternalServerError)
	if cause != nil {
		appErr.WithContext("cause", cause.Error())
	}
	return appErr
}

// StatusCode maps an error to the HTTP status it should surface as.
func StatusCode(err error) int {
	var appErr *AppError

	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to show a caller.
// Anything that is not a known AppError collapses to the generic message.
func PublicMessage(err error) string {
	var appErr *AppError

	if errors.As(err, &appErr) && !errors.Is(appErr.Err, ErrPersistence) {
		return appErr.Error()
	}

	return GenericInternalMessage
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
