/*
Package sale - sale domain error definitions

Principles:
1. Sentinel errors support type-safe errors.Is() checks
2. Error constructors capture the stack at the point of creation
3. Every error supports the error chain back to its root cause
4. No transport concepts (HTTP status codes) in this package
*/
package sale

import (
	"errors"
	"fmt"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// ============================================================================
// Sale domain sentinel errors
// ============================================================================

var (
	// ErrSaleNotFound the referenced sale does not exist
	ErrSaleNotFound = errors.New("sale not found")

	// ErrItemNotFound the referenced sale line does not belong to this sale
	ErrItemNotFound = errors.New("sale item not found")

	// ErrProductNotFound the referenced product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrConcurrentModification optimistic lock conflict on a sale write;
	// the caller may retry
	ErrConcurrentModification = errors.New("sale was modified by another transaction, please retry")

	// ErrSaleAlreadyCancelled the sale is in its terminal state; no further
	// mutation is permitted
	ErrSaleAlreadyCancelled = errors.New("sale is already cancelled")

	// ErrEmptySaleItems a sale must be created with at least one line
	ErrEmptySaleItems = errors.New("sale must have at least one item")

	// ErrLastItem removing the line would leave an active sale with no lines
	ErrLastItem = errors.New("cannot remove the last item of an active sale")

	// ErrInvalidQuantity quantity must be a positive integer
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrQuantityOverLimit quantity exceeds the maximum sellable amount for
	// one product within one sale
	ErrQuantityOverLimit = errors.New("quantity exceeds the maximum sellable amount")

	// ErrDiscountExceedsSubtotal derived discount would exceed the line subtotal
	ErrDiscountExceedsSubtotal = errors.New("discount must not exceed the item subtotal")

	// ErrTotalAmountNotPositive a priced line (and the sale) must stay positive
	ErrTotalAmountNotPositive = errors.New("total amount must be positive")

	// ErrInvalidPolicy the configured discount tier table is malformed
	ErrInvalidPolicy = errors.New("invalid discount policy table")
)

// ============================================================================
// Constructors for errors carrying context and stacks
// ============================================================================

// NewSaleNotFoundError creates a sale-not-found error (with stack)
// Supports:
//   - errors.Is(err, ErrSaleNotFound)
//   - err.(shared.Stacker).Stack()
func NewSaleNotFoundError(saleID string) error {
	return &saleDomainError{
		sentinel: ErrSaleNotFound,
		entity:   "sale",
		message:  "sale not found: " + saleID,
		stack:    shared.CaptureStack(3),
	}
}

// NewItemNotFoundError creates a sale-item-not-found error
func NewItemNotFoundError(itemID string) error {
	return &saleDomainError{
		sentinel: ErrItemNotFound,
		entity:   "sale",
		message:  "sale item not found: " + itemID,
		stack:    shared.CaptureStack(3),
	}
}

// NewProductNotFoundError creates a product-not-found error
func NewProductNotFoundError(productID string) error {
	return &saleDomainError{
		sentinel: ErrProductNotFound,
		entity:   "product",
		message:  "product not found: " + productID,
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError creates an optimistic lock conflict error
func NewConcurrentModificationError(saleID string) error {
	return &saleDomainError{
		sentinel: ErrConcurrentModification,
		entity:   "sale",
		message:  "sale " + saleID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// NewAlreadyCancelledError creates a terminal-state violation error
func NewAlreadyCancelledError(saleNumber string) error {
	return &saleDomainError{
		sentinel: errors.Join(shared.ErrInvalidState, ErrSaleAlreadyCancelled),
		entity:   "sale",
		message:  "sale " + saleNumber + " is already cancelled",
		stack:    shared.CaptureStack(3),
	}
}

// NewLastItemError creates the empty-line-set invariant violation error
func NewLastItemError(saleNumber string) error {
	return &saleDomainError{
		sentinel: errors.Join(shared.ErrInvalidState, ErrLastItem),
		entity:   "sale",
		message:  "cannot remove the last item of active sale " + saleNumber,
		stack:    shared.CaptureStack(3),
	}
}

// NewQuantityOverLimitError creates the over-cap validation error
func NewQuantityOverLimitError(quantity, limit int) error {
	return &saleDomainError{
		sentinel: errors.Join(shared.ErrInvalidInput, ErrQuantityOverLimit),
		entity:   "sale",
		field:    "quantity",
		message:  fmt.Sprintf("quantity %d exceeds the maximum of %d identical items per sale", quantity, limit),
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidQuantityError creates the non-positive quantity validation error
func NewInvalidQuantityError(quantity int) error {
	return &saleDomainError{
		sentinel: errors.Join(shared.ErrInvalidInput, ErrInvalidQuantity),
		entity:   "sale",
		field:    "quantity",
		message:  fmt.Sprintf("quantity must be positive, got %d", quantity),
		stack:    shared.CaptureStack(3),
	}
}

// ============================================================================
// Internal error struct implementing error, Unwrap and Stacker
// ============================================================================

type saleDomainError struct {
	sentinel error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *saleDomainError) Error() string {
	return e.message
}

func (e *saleDomainError) Unwrap() error {
	return e.sentinel
}

// Stack implements shared.Stacker
func (e *saleDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}

	return shared.FormatStack(e.stack)
}
