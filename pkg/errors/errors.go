// Package errors defines the solver's error taxonomy.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the grid solver. Every kind is fatal: the policy in every
// caller is to surface the first one immediately and abort, never retry.
const (
	CodeUnknown            = "UNKNOWN_ERROR"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeIOError             = "IO_ERROR"
	CodeResourceError       = "RESOURCE_ERROR"
	CodeCommunicationError  = "COMMUNICATION_ERROR"
)

// AppError represents a fatal solver error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Sentinel instances for errors.Is comparisons.
var (
	ErrInvalidArgument    = New(CodeInvalidArgument, "invalid argument")
	ErrIOError            = New(CodeIOError, "I/O error")
	ErrResourceError      = New(CodeResourceError, "resource error")
	ErrCommunicationError = New(CodeCommunicationError, "communication error")
)

// IsInvalidArgument reports whether err carries CodeInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsIOError reports whether err carries CodeIOError.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIOError)
}

// IsResourceError reports whether err carries CodeResourceError.
func IsResourceError(err error) bool {
	return errors.Is(err, ErrResourceError)
}

// IsCommunicationError reports whether err carries CodeCommunicationError.
func IsCommunicationError(err error) bool {
	return errors.Is(err, ErrCommunicationError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
