package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a referenced record does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrInsufficientFunds indicates that the available balance cannot cover an amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidState indicates that an operation breaks a state-machine rule.
var ErrInvalidState = errors.New("invalid state")

// ErrConflict indicates that the optimistic retry budget was exhausted.
var ErrConflict = errors.New("concurrent modification, please try again")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientFundsError provides details about a balance shortage.
type InsufficientFundsError struct {
	AccountID string
	Available int64
	Requested int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s: available %d, requested %d",
		e.AccountID, e.Available, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// InvalidStateError carries the rule that was violated.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return "invalid state: " + e.Reason
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InvalidState builds an InvalidStateError from a format string.
func InvalidState(format string, args ...any) error {
	return &InvalidStateError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError is returned once every commit attempt lost an optimistic race.
type ConflictError struct {
	Operation string
	Attempts  int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: gave up after %d conflicting attempts", e.Operation, e.Attempts)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsRetryable returns true if the caller may retry the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsClientError returns true if the error should be shown to the user as-is.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrValidation)
}
