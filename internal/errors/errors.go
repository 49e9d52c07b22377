// Package errors provides custom error types for domain-specific errors.
//
// The metrics engine itself never returns errors; numeric degeneracy is
// absorbed by fallback values so the journal stays usable mid-edit. Errors
// exist only at the persistence, session, and advisor boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrTradeNotFound  = errors.New("trade not found")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrStoreClosed    = errors.New("store is closed")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrAdvisorOffline = errors.New("ai advisor not configured")
	ErrInvalidStop    = errors.New("stop-loss on wrong side of entry")
)

// ValidationError represents a rejected trade input field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// StoreError represents a persistence failure, tagged with the operation
// and the user partition it ran against.
type StoreError struct {
	Op     string
	UserID string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, userID string, err error) *StoreError {
	return &StoreError{Op: op, UserID: userID, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
