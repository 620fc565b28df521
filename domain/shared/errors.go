/*
Package shared - domain layer error model

Principles:
1. The domain defines sentinel errors for type-safe errors.Is() checks
2. DomainError captures its stack at creation but formats it lazily
3. Domain errors never carry transport concepts such as HTTP status codes
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel errors
// Used with errors.Is() to classify failures; they carry no context.
// ============================================================================

var (
	// ErrNotFound a referenced resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict resource conflict (concurrent modification, unique constraint)
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput structural or field-level validation failure
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState operation not permitted in the aggregate's current state
	ErrInvalidState = errors.New("invalid state")

	// ErrInfrastructure persistence or event bus failure; never retried by the
	// domain, surfaced to the caller for the outer layer to decide
	ErrInfrastructure = errors.New("infrastructure failure")
)

// Violation One field-level validation failure
type Violation struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// ============================================================================
// Structured domain error
// Carries business context and the creation-point stack; supports
// errors.Is() and errors.As().
// ============================================================================

// DomainError structured domain error with captured stack
type DomainError struct {
	// Err underlying sentinel, checked via errors.Is()
	Err error

	// Entity the entity this error concerns (e.g. "sale", "product")
	Entity string

	// Message human readable description
	Message string

	// Field optional field name for validation errors
	Field string

	// stack frames captured at creation, formatted on demand
	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured stack (called only when logging)
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// ============================================================================
// Stack capture helpers
// ============================================================================

// CaptureStack captures the current call stack (exported for subdomain packages)
// skip: frames to skip (usually 3: Callers, CaptureStack, NewXxxError)
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack formats stack frames, filtering runtime internals, max 10 frames
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Constructors
// ============================================================================

// NewNotFoundError creates a "not found" domain error
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a "conflict" domain error
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates a validation domain error
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewInvalidStateError creates an "invalid state" domain error
func NewInvalidStateError(entity, reason string) error {
	return &DomainError{
		Err:     ErrInvalidState,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewInfrastructureError wraps a low-level failure as an infrastructure error
func NewInfrastructureError(entity string, cause error) error {
	return &DomainError{
		Err:     errors.Join(ErrInfrastructure, cause),
		Entity:  entity,
		Message: entity + ": " + cause.Error(),
		stack:   CaptureStack(3),
	}
}

// ============================================================================
// Stacker interface
// Lets the API layer extract stacks uniformly.
// ============================================================================

// Stacker an error that can provide its captured stack
type Stacker interface {
	Stack() []string
}
