// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
)

// Error is a caller-facing error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation reports missing or malformed input (400).
func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

// Conflict reports a duplicate of a unique value such as a username (409).
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// Auth reports bad credentials or a missing, expired or invalid token (401).
func Auth(msg string) error { return &Error{Kind: KindAuth, Message: msg} }

// NotFound reports a record that is absent or owned by someone else (404).
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

// KindOf reports the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-safe message for err. Internal errors never
// leak their cause.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
