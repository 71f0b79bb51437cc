// Package apperrors defines the error taxonomy shared by all usecases. Every
// error aborts the enclosing database transaction; handlers map them to HTTP
// statuses. Balance and inventory shortfalls carry the figures the caller
// needs to retry or adjust.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound signals that a wallet, bank, card, or request is absent.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidState signals an operation against a record whose current
	// state forbids it, e.g. approving a non-pending top-up request.
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrConflict signals a uniqueness violation, e.g. a duplicate bank code
	// or card code.
	ErrConflict = errors.New("conflict")
)

// NotFound wraps ErrNotFound with the missing resource's identity.
func NotFound(resource string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", resource, id, ErrNotFound)
}

// InvalidState wraps ErrInvalidState with a description of the illegal move.
func InvalidState(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}

// Conflict wraps ErrConflict with the duplicated identity.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// ValidationError reports malformed input before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientBalanceError reports a debit that exceeds the committed balance.
type InsufficientBalanceError struct {
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available=%s, requested=%s",
		e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

// InsufficientInventoryError reports a reservation that exceeds the number of
// eligible cards.
type InsufficientInventoryError struct {
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory: requested=%d, available=%d",
		e.Requested, e.Available)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidState reports whether err is (or wraps) ErrInvalidState.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsConflict reports whether err is (or wraps) ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
