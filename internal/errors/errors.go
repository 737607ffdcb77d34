// Package errors provides centralized error definitions and error handling
// utilities for the cadre codebase. It defines domain-specific sentinel errors,
// semantic error types, and classification helpers used across the
// orchestration core.
//
// # Error Types
//
// Sentinel errors cover conditions callers branch on with errors.Is:
// unknown roles, invalid state transitions, closed sessions, exhausted
// budgets, and denied permissions.
//
// Semantic error types carry structured context:
//   - PermissionError: a capability or constraint check rejected an operation
//   - BudgetError: a step or token budget was exhausted
//   - NotFoundError: a named resource does not exist
//   - ValidationError: invalid input or configuration
//
// # Classification
//
// Permission violations are deliberately non-retryable: retrying an operation
// that policy rejected cannot succeed and must never happen automatically.
// Use IsRetryable and IsPermission to drive retry/escalation decisions.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Specialist and role sentinel errors
var (
	// ErrRoleNotFound indicates no specialist is registered for a role.
	ErrRoleNotFound = New("role not found")
	// ErrModelCallFailed indicates the underlying model call returned an error.
	ErrModelCallFailed = New("model call failed")
	// ErrNoParticipants indicates an operation requires at least one participant.
	ErrNoParticipants = New("no participants")
)

// Session sentinel errors
var (
	// ErrSessionClosed indicates the collaboration session is in a terminal state.
	ErrSessionClosed = New("session is closed")
	// ErrInvalidTransition indicates a state machine transition is not allowed.
	ErrInvalidTransition = New("invalid status transition")
	// ErrProtocolViolation indicates an operation not permitted by the
	// session's collaboration protocol.
	ErrProtocolViolation = New("protocol violation")
)

// Task sentinel errors
var (
	// ErrTaskNotFound indicates a task could not be found.
	ErrTaskNotFound = New("task not found")
	// ErrTaskTerminal indicates the task already reached a terminal status.
	ErrTaskTerminal = New("task is in a terminal state")
	// ErrNotAwaitingConfirmation indicates a resume was requested for a task
	// that is not suspended on user confirmation.
	ErrNotAwaitingConfirmation = New("task is not awaiting confirmation")
	// ErrPermissionDenied indicates a capability or constraint check failed.
	ErrPermissionDenied = New("permission denied")
	// ErrBudgetExceeded indicates a step or token budget was exhausted.
	ErrBudgetExceeded = New("budget exceeded")
)

// Consensus sentinel errors
var (
	// ErrProposalWithdrawn indicates votes were cast against a withdrawn proposal.
	ErrProposalWithdrawn = New("proposal withdrawn")
)

// -----------------------------------------------------------------------------
// Semantic Error Types
// -----------------------------------------------------------------------------

// PermissionError reports a rejected operation along with the missing
// capability or disallowed operation class. It wraps ErrPermissionDenied so
// errors.Is(err, ErrPermissionDenied) holds for every PermissionError.
type PermissionError struct {
	// Operation is the operation class that was rejected, e.g. "write_file".
	Operation string
	// Reason explains which check failed (capability vs constraint).
	Reason string
}

// NewPermissionError creates a PermissionError for the given operation.
func NewPermissionError(operation, reason string) *PermissionError {
	return &PermissionError{Operation: operation, Reason: reason}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s: %s", e.Operation, e.Reason)
}

// Unwrap makes PermissionError match ErrPermissionDenied.
func (e *PermissionError) Unwrap() error { return ErrPermissionDenied }

// BudgetError reports an exhausted budget. It wraps ErrBudgetExceeded.
type BudgetError struct {
	// Kind is the budget dimension: "steps" or "tokens".
	Kind string
	// Used is the amount consumed so far.
	Used int
	// Limit is the configured maximum.
	Limit int
}

// NewBudgetError creates a BudgetError for the given dimension.
func NewBudgetError(kind string, used, limit int) *BudgetError {
	return &BudgetError{Kind: kind, Used: used, Limit: limit}
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("budget exceeded: %s %d/%d", e.Kind, e.Used, e.Limit)
}

// Unwrap makes BudgetError match ErrBudgetExceeded.
func (e *BudgetError) Unwrap() error { return ErrBudgetExceeded }

// NotFoundError indicates a named resource does not exist.
type NotFoundError struct {
	// Resource is the resource kind, e.g. "specialist", "session".
	Resource string
	// ID is the identifier that was looked up.
	ID string
}

// NewNotFoundError creates a NotFoundError for the given resource and ID.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError indicates invalid input or configuration.
type ValidationError struct {
	// Field is the field that failed validation.
	Field string
	// Message describes the failure.
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsPermission returns true if the error is a permission violation.
// Permission violations must never be retried automatically.
func IsPermission(err error) bool {
	return Is(err, ErrPermissionDenied)
}

// IsBudget returns true if the error indicates an exhausted budget.
func IsBudget(err error) bool {
	return Is(err, ErrBudgetExceeded)
}

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. Permission violations, exhausted budgets, and
// terminal-state errors are never retryable; failed model calls are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case IsPermission(err), IsBudget(err):
		return false
	case Is(err, ErrTaskTerminal), Is(err, ErrSessionClosed), Is(err, ErrInvalidTransition):
		return false
	case Is(err, ErrModelCallFailed):
		return true
	default:
		return false
	}
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if Is(err, ErrRoleNotFound) || Is(err, ErrTaskNotFound) {
		return true
	}
	var nf *NotFoundError
	return As(err, &nf)
}
