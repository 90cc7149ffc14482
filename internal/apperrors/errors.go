package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError carries field-level messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func NewValidation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for a field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message
	return e
}

// Addf is Add with formatting.
func (e *ValidationError) Addf(field, format string, args ...interface{}) *ValidationError {
	return e.Add(field, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any field message was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validationf builds a single-field ValidationError.
func Validationf(field, format string, args ...interface{}) *ValidationError {
	return NewValidation().Addf(field, format, args...)
}

// NotFoundError means the requested record does not exist (or is deleted).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AuthorizationError means the caller is not allowed to touch the record.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

func Forbidden(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

// InvalidStatusError means a status value outside the inquiry lifecycle.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid inquiry status %q", e.Status)
}

// HTTPStatus maps a taxonomy error to its response code. Anything outside the
// taxonomy is a server-side failure.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		statusErr     *InvalidStatusError
		notFoundErr   *NotFoundError
		authErr       *AuthorizationError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &statusErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &authErr):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
