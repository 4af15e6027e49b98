// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the handler layer maps them to HTTP status
// codes in exactly one place (handler.writeError). Sentinel errors let
// callers branch with errors.Is without depending on message text.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel plus a human-readable message safe to show to
// API clients. Internal causes (SQL errors, bcrypt errors, JWT parse errors)
// must never be placed in Message.
type AppError struct {
	Err     error  // sentinel category
	Message string // client-safe description
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource does not exist for the caller.
//
// This is deliberately the only outcome for both "no such id" and "id owned
// by someone else" — the message carries no hint which one it was.
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized reports a failed authentication. All causes (unknown email,
// wrong password, missing/expired/malformed token) share this one value and
// message so the response never reveals which check failed.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
