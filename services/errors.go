package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by every service operation.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrRateLimited     = errors.New("rate limited")
	ErrConflict        = errors.New("conflict")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RateLimitError is returned while the actor's cooldown window is still open.
type RateLimitError struct {
	Kind      Kind
	Cooldown  int // minutes
	Remaining int // minutes
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: wait %d more minute(s) before creating another %s", e.Remaining, e.Kind)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
