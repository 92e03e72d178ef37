package utils

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies an APIError and decides its HTTP status
type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

// APIError is an error surfaced to API callers as JSON
type APIError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details string
	Err     error
}

// Error returns the client-facing message
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *APIError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind
func (e *APIError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError reports missing, duplicate or out-of-range input (400)
func NewValidationError(code, message string) *APIError {
	return &APIError{Kind: KindValidation, Code: code, Message: message}
}

// NewAuthError reports bad credentials or a missing/invalid token (401)
func NewAuthError(code, message string) *APIError {
	return &APIError{Kind: KindAuth, Code: code, Message: message}
}

// NewForbiddenError reports an authenticated caller acting outside its permissions (403)
func NewForbiddenError(code, message string) *APIError {
	return &APIError{Kind: KindForbidden, Code: code, Message: message}
}

// NewNotFoundError reports an unknown identifier (404)
func NewNotFoundError(code, message string) *APIError {
	return &APIError{Kind: KindNotFound, Code: code, Message: message}
}

// NewConflictError reports a write that violates a uniqueness or reference rule (409)
func NewConflictError(code, message string) *APIError {
	return &APIError{Kind: KindConflict, Code: code, Message: message}
}

// NewServerError wraps an unexpected failure (500)
func NewServerError(code, message string, err error) *APIError {
	return &APIError{Kind: KindServer, Code: code, Message: message, Err: err}
}

// AsAPIError converts any error into an APIError, treating unknown errors as server faults
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewServerError("SERVER_ERROR", "An unexpected error occurred", err)
}

// IsDuplicateKeyError reports whether err is a unique constraint violation
// (works with both PostgreSQL and SQLite)
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint")
}
