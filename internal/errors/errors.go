package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a TinyNotes error code.
type ErrorCode string

const (
	ErrRateLimited           ErrorCode = "RATE_LIMITED"            // 429
	ErrMissingIdempotencyKey ErrorCode = "MISSING_IDEMPOTENCY_KEY" // 400
	ErrInvalidRequest        ErrorCode = "INVALID_REQUEST"         // 400
	ErrContentInvalid        ErrorCode = "CONTENT_INVALID"         // 422
	ErrNotFound              ErrorCode = "NOT_FOUND"               // 404
	ErrInternal              ErrorCode = "INTERNAL"                // 500
)

// NotesError represents a structured error with code, status, and details.
type NotesError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *NotesError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewRateLimited creates a 429 error for requests rejected by the limiter.
// The message is the wire-level detail string clients match on.
func NewRateLimited() *NotesError {
	return &NotesError{
		Code:    ErrRateLimited,
		Status:  429,
		Message: "rate_limit_exceeded",
	}
}

// NewMissingIdempotencyKey creates a 400 error for write requests that omit
// the Idempotency-Key header.
func NewMissingIdempotencyKey() *NotesError {
	return &NotesError{
		Code:    ErrMissingIdempotencyKey,
		Status:  400,
		Message: "missing Idempotency-Key header",
	}
}

// NewInvalidRequest creates a 400 error for malformed request input.
func NewInvalidRequest(msg string) *NotesError {
	return &NotesError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewContentInvalid creates a 422 error for note content that fails validation.
func NewContentInvalid(msg string, min, max int) *NotesError {
	return &NotesError{
		Code:    ErrContentInvalid,
		Status:  422,
		Message: msg,
		Details: map[string]any{"min_chars": min, "max_chars": max},
	}
}

// NewNotFound creates a 404 error for when a note cannot be found.
func NewNotFound(id string) *NotesError {
	return &NotesError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("note not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is generic; the original error is kept in Details for logging
// so internals are never leaked to clients.
func NewInternal(err error) *NotesError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &NotesError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or any error it wraps) is a NotesError with the
// given code.
func Is(err error, code ErrorCode) bool {
	var nErr *NotesError
	if stderrors.As(err, &nErr) {
		return nErr.Code == code
	}
	return false
}
