package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries a stable machine-readable code alongside the HTTP status a
// handler should answer with. Handlers never inspect Err; it exists so logs
// keep the underlying cause.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New builds a bare domain error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap builds a domain error around an underlying cause.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Clone copies a sentinel so callers can override the message without
// mutating the shared value.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	out := *err
	if message != "" {
		out.Message = message
	}
	return &out
}

// FromError maps any error onto an *Error, defaulting to ErrInternal for
// plain errors so handlers never leak raw failure text to clients.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var domain *Error
	if errors.As(err, &domain) {
		return domain
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Auth and access sentinels.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
)

// Request and state sentinels.
var (
	ErrNotFound          = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrConflict          = New("CONFLICT", http.StatusConflict, "conflict")
	ErrNoChanges         = New("NO_CHANGES", http.StatusConflict, "no changes to submit")
	ErrAlreadyReviewed   = New("ALREADY_REVIEWED", http.StatusConflict, "contribution already reviewed")
	ErrAlreadyRegistered = New("ALREADY_REGISTERED", http.StatusConflict, "project already registered")
)

// Infrastructure sentinels.
var (
	ErrInternal          = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCronMisconfigured = New("CONFIGURATION_ERROR", http.StatusInternalServerError, "service configuration error")
	ErrCacheMiss         = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)
