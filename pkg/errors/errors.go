package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. Business-rule violations map to
// 400 so the API layer can distinguish them from missing resources (404)
// and unexpected storage failures (500).
var (
	ErrNotFound        = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInvalidPlate    = New("INVALID_PLATE_FORMAT", http.StatusBadRequest, "plate must be 6 to 8 characters after normalization")
	ErrInvalidYear     = New("INVALID_YEAR", http.StatusBadRequest, "manufacture year out of range")
	ErrInvalidCapacity = New("INVALID_CAPACITY", http.StatusBadRequest, "seat capacity must be between 1 and 45")
	ErrUnknownState    = New("UNKNOWN_STATE", http.StatusBadRequest, "bus state does not exist")
	ErrUnknownFuelType = New("UNKNOWN_FUEL_TYPE", http.StatusBadRequest, "fuel type does not exist")
	ErrDuplicatePlate  = New("DUPLICATE_PLATE", http.StatusBadRequest, "plate already registered")
	ErrConflict        = New("CONFLICT", http.StatusBadRequest, "unique field already in use")
	ErrInternal        = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrCacheMiss is a sentinel for cache lookups, never surfaced over HTTP.
	ErrCacheMiss = New("CACHE_MISS", http.StatusInternalServerError, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
