package domain

import (
	"errors"
	"fmt"
)

// Application error codes.
// These map to HTTP status codes and determine user-facing messages.
const (
	EINVALID     = "invalid"     // 400 - Malformed input (bad batch shape)
	ENOTFOUND    = "not_found"   // 404 - Resource not found
	EINTERNAL    = "internal"    // 500 - Internal server error (hide details)
	EUNAVAILABLE = "unavailable" // 503 - Reference store unreachable
)

// Error represents an application error with a code and message.
// It implements the error interface and supports error wrapping.
//
// Note: field-level data-quality problems are not represented as Error;
// they are accumulated as FieldError values and returned as data. Error is
// reserved for infrastructure failures that abort the whole call.
type Error struct {
	// Code is a machine-readable error code (e.g., EINVALID, EUNAVAILABLE).
	Code string

	// Message is a human-readable error message safe to show to callers.
	Message string

	// Op is the operation where the error occurred (e.g., "validate.batch").
	// Used for debugging and logging, not shown to callers.
	Op string

	// Err is the underlying error, if any. Used for error wrapping.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL for nil or non-domain errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return EINTERNAL
}

// ErrorMessage extracts a caller-facing message from an error.
// For internal errors, returns a generic message to avoid leaking details.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Code == EINTERNAL {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}

	return "An internal error occurred. Please try again later."
}

// Errorf creates a new domain error with formatted message.
// Example: domain.Errorf(domain.EINVALID, "handler.decode", "unexpected payload shape")
func Errorf(code, op, format string, args ...interface{}) error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a domain error code and operation.
// Preserves the underlying error for logging while providing structure.
// Returns nil if err is nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Invalid creates a validation error for a single issue.
// Example: domain.Invalid("handler.decode", "request body is not an order batch")
func Invalid(op, message string) error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error (wraps underlying error).
// The message shown to callers will be generic; the underlying error is for logging.
// Example: domain.Internal(err, "validate.header", "sales period lookup failed")
func Internal(err error, op, message string) error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Unavailable creates an error for an unreachable external dependency.
func Unavailable(err error, op, message string) error {
	return &Error{
		Code:    EUNAVAILABLE,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
