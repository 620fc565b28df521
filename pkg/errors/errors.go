/*
Package errors - application level error model

The domain layer raises sentinel errors and structured domain errors; this
package translates them into AppError values carrying a stable error code.
The API layer maps codes to HTTP status, so transport concerns never leak
into the domain.
*/
package errors

import (
	"errors"
	"fmt"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// ErrorCode Stable application error code
type ErrorCode string

const (
	// Generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeInvalidState   ErrorCode = "INVALID_STATE"
	CodeInfrastructure ErrorCode = "INFRASTRUCTURE_ERROR"

	// Business codes
	CodeSaleNotFound      ErrorCode = "SALE_NOT_FOUND"
	CodeSaleItemNotFound  ErrorCode = "SALE_ITEM_NOT_FOUND"
	CodeProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"
	CodeSaleCancelled     ErrorCode = "SALE_ALREADY_CANCELLED"
	CodeConcurrentModify  ErrorCode = "CONCURRENT_MODIFICATION"
	CodeQuantityOverLimit ErrorCode = "QUANTITY_OVER_LIMIT"
)

// AppError Application error with a stable code for the transport layer
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	// Violations carries field-level validation failures, if any.
	// A validation error is never partially applied; the whole command
	// is rejected with the full violation list.
	Violations []shared.Violation `json:"violations,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New Create a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap Wrap an underlying error with a code and message
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation Create a validation error carrying field violations
func Validation(message string, violations ...shared.Violation) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Violations: violations}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Infrastructure(err error, message string) *AppError {
	return Wrap(err, CodeInfrastructure, message)
}

// Is Check whether err carries the given application error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError Map a domain error to an application error
// Sentinel checks via errors.Is keep the mapping stable across wrapping.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	// Already an AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sale.ErrSaleNotFound):
		return Wrap(err, CodeSaleNotFound, err.Error())
	case errors.Is(err, sale.ErrItemNotFound):
		return Wrap(err, CodeSaleItemNotFound, err.Error())
	case errors.Is(err, sale.ErrProductNotFound):
		return Wrap(err, CodeProductNotFound, err.Error())
	case errors.Is(err, sale.ErrSaleAlreadyCancelled):
		return Wrap(err, CodeSaleCancelled, err.Error())
	case errors.Is(err, sale.ErrQuantityOverLimit):
		return Wrap(err, CodeQuantityOverLimit, err.Error())
	case errors.Is(err, sale.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModify, err.Error())
	case errors.Is(err, shared.ErrInvalidState):
		return Wrap(err, CodeInvalidState, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	case errors.Is(err, shared.ErrInfrastructure):
		return Wrap(err, CodeInfrastructure, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		vErr := &AppError{Code: CodeValidation, Message: err.Error(), Err: err}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Field != "" {
			vErr.Violations = []shared.Violation{{
				Field:  domainErr.Field,
				Detail: domainErr.Message,
			}}
		}
		return vErr
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
