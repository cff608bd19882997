package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error with HTTP awareness.
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

// Room payload validation errors. The messages are part of the API contract
// and are returned to clients verbatim.
var (
	ErrMissingFields          = New("MISSING_FIELDS", http.StatusBadRequest, "Missing required fields")
	ErrInvalidName            = New("INVALID_NAME", http.StatusBadRequest, "Study room name cannot be empty")
	ErrInvalidCapacityType    = New("INVALID_CAPACITY_TYPE", http.StatusBadRequest, "Capacity must be an integer")
	ErrInvalidCapacityValue   = New("INVALID_CAPACITY_VALUE", http.StatusBadRequest, "Capacity must be greater than zero")
	ErrInvalidCreatorID       = New("INVALID_CREATOR_ID", http.StatusBadRequest, "Creator ID must be an integer")
	ErrMissingDate            = New("MISSING_DATE", http.StatusBadRequest, "Date is required")
	ErrInvalidDateFormat      = New("INVALID_DATE_FORMAT", http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
	ErrMissingStartTime       = New("MISSING_START_TIME", http.StatusBadRequest, "Start time is required")
	ErrInvalidStartTimeFormat = New("INVALID_START_TIME_FORMAT", http.StatusBadRequest, "Invalid start_time format, expected HH:mm")
	ErrMissingEndTime         = New("MISSING_END_TIME", http.StatusBadRequest, "End time is required")
	ErrInvalidEndTimeFormat   = New("INVALID_END_TIME_FORMAT", http.StatusBadRequest, "Invalid end_time format, expected HH:mm")
	ErrMissingLocation        = New("MISSING_LOCATION", http.StatusBadRequest, "Location is required")
	ErrMissingMode            = New("MISSING_MODE", http.StatusBadRequest, "Mode is required")
)

// Cross-cutting errors.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrPersistence        = New("PERSISTENCE_ERROR", http.StatusInternalServerError, "storage operation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
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
