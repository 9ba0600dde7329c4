// Package errors defines the error codes the HTTP API reports. Every API
// failure is rendered from an AppError; the Internal cause is logged but
// never sent to clients.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an API error: a stable Code, a human Message, the HTTP status
// and optional client-facing Details.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// New declares an error code.
func New(code, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

// NewBadRequest is BAD_REQUEST with a specific message.
func NewBadRequest(message string) *AppError {
	return ErrBadRequest.WithMessage(message)
}

var (
	ErrBadRequest     = New("BAD_REQUEST", "Invalid request", http.StatusBadRequest)
	ErrNotFound       = New("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrRateLimit      = New("RATE_LIMIT_EXCEEDED", "Too many requests, please slow down", http.StatusTooManyRequests)
	ErrInternalServer = New("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)

	ErrResourceNotFound      = New("RESOURCE_NOT_FOUND", "Resource is not registered", http.StatusNotFound)
	ErrResourceMisconfigured = New("RESOURCE_MISCONFIGURED", "Resource is misconfigured", http.StatusInternalServerError)
	ErrRecordNotFound        = New("RECORD_NOT_FOUND", "Record not found", http.StatusNotFound)
	ErrRecordConflict        = New("RECORD_CONFLICT", "Record conflicts with an existing one", http.StatusConflict)
	ErrFilterNotFound        = New("FILTER_NOT_FOUND", "Filter is not defined for this resource", http.StatusBadRequest)
	ErrInvalidFilter         = New("INVALID_FILTER_VALUE", "Filter value is not valid", http.StatusBadRequest)
	ErrValidationFailed      = New("VALIDATION_FAILED", "The submitted data is invalid", http.StatusUnprocessableEntity)
)

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches any AppError with the same code, so a copy made by one of the
// With methods still satisfies errors.Is against the declared value.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	if !ok || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// WithInternal returns a copy carrying the underlying cause.
func (e *AppError) WithInternal(err error) *AppError {
	return e.with(func(cpy *AppError) { cpy.Internal = err })
}

// WithDetails returns a copy carrying client-facing details.
func (e *AppError) WithDetails(details any) *AppError {
	return e.with(func(cpy *AppError) { cpy.Details = details })
}

// WithMessage returns a copy with a different message.
func (e *AppError) WithMessage(message string) *AppError {
	return e.with(func(cpy *AppError) { cpy.Message = message })
}

func (e *AppError) with(change func(*AppError)) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	change(&cpy)
	return &cpy
}

// FromError returns the AppError in err's chain, or INTERNAL_SERVER_ERROR
// wrapping err when there is none.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer.WithInternal(err)
}
