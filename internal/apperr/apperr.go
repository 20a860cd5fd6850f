// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an operation would break a reference held by other records.
	ErrConflict = errors.New("conflict")
)

// Issue is a single validation failure attached to a payload key.
type Issue struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidationError aggregates every issue found in one request body.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Key == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s at %q", is.Message, is.Key))
	}
	return "Validation error: " + strings.Join(parts, "; ")
}

// Add appends an issue.
func (e *ValidationError) Add(key, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Key: key, Message: fmt.Sprintf(format, args...)})
}

// OrNil returns nil when no issues were collected, so callers can write
// `return v.OrNil()` without a typed-nil error escaping.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}

// Invalid builds a single-issue ValidationError.
func Invalid(key, format string, args ...any) *ValidationError {
	v := &ValidationError{}
	v.Add(key, format, args...)
	return v
}

// NotFound wraps ErrNotFound with the kind of record that was missing.
func NotFound(kind string) error {
	return fmt.Errorf("%s %w", kind, ErrNotFound)
}

// Conflict wraps ErrConflict with a reason.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
