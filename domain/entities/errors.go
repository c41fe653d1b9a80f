package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for missing records and platform outcomes. Callers match
// with errors.Is; idempotent operations treat the not-found family as success.
var (
	ErrUnknownModule = errors.New("unknown module")
	ErrMenuNotFound  = errors.New("role menu not found")
	ErrMenuPaused    = errors.New("role menu is paused")
	ErrLockNotFound  = errors.New("channel lock not found")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
)

// ValidationError marks input rejected before any side effect occurred.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PermissionError marks an operation rejected because the bot lacks a required
// platform capability, such as managing a role above its own highest role.
// Raised before any persistence happens.
type PermissionError struct {
	Message string
	Err     error
}

func NewPermissionError(message string, err error) *PermissionError {
	return &PermissionError{Message: message, Err: err}
}

func (e *PermissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// IsPermissionError reports whether err is (or wraps) a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// RoleFailure records one role that could not be applied during a selection,
// with the reason it was skipped.
type RoleFailure struct {
	RoleID int64
	Reason string
}

// PartialApplyError reports an operation where some sub-operations succeeded
// and others failed. It is not a hard failure: persisted state stands and the
// caller receives both subsets.
type PartialApplyError struct {
	Succeeded []int64
	Failed    []RoleFailure
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("partially applied: %d succeeded, %d failed", len(e.Succeeded), len(e.Failed))
}
