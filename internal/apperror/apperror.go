// Package apperror defines the error taxonomy shared by the sign-in flows.
//
// Every failure a flow can hit falls into one kind:
//
//	ErrValidation  malformed credential or form input
//	ErrBackend     transport failure, non-2xx status, unreadable body
//	ErrRejected    backend answered {"success": false}
//	ErrProtocol    OAuth state mismatch, provider error, missing code
//	ErrTimeout     popup flow ran past its deadline
//	ErrCancelled   popup flow was cancelled by the caller
//	ErrNotFound    storage key absent
//
// Callers match kinds with errors.Is and pull the human-readable message out
// with errors.As(err, &*AppError).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrBackend    = errors.New("backend error")
	ErrRejected   = errors.New("rejected")
	ErrProtocol   = errors.New("protocol error")
	ErrTimeout    = errors.New("timeout")
	ErrCancelled  = errors.New("cancelled")
)

type AppError struct {
	Err     error  // kind sentinel, or the underlying cause wrapping one
	Message string // human-readable error message
	Field   string // optional: input field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with key %s", resource, key),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Backend wraps a transport-level failure. cause is kept in the chain so the
// underlying net/http or decoding error stays inspectable.
func Backend(endpoint string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrBackend, cause),
		Message: fmt.Sprintf("request to %s failed: %v", endpoint, cause),
	}
}

// Rejected carries the message the backend sent with {"success": false}.
func Rejected(message string) *AppError {
	return &AppError{
		Err:     ErrRejected,
		Message: message,
	}
}

func Protocol(message string) *AppError {
	return &AppError{
		Err:     ErrProtocol,
		Message: message,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Err:     ErrTimeout,
		Message: message,
	}
}

func Cancelled(message string) *AppError {
	return &AppError{
		Err:     ErrCancelled,
		Message: message,
	}
}

// MessageOf returns the AppError message anywhere in err's chain, or
// fallback when there is none or it is empty.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
