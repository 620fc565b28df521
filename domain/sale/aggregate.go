/*
Package sale Sale subdomain - the core consistency boundary of the service

The Sale aggregate owns its lines and the pricing results derived for them.
All modifications to a sale or its lines go through the aggregate root, which
keeps three invariants:
 1. TotalAmount always equals the sum of the current lines' totals
 2. An active sale has at least one line with positive quantity
 3. Cancellation is terminal; nothing mutates a cancelled sale

Sales and lines reference customers, branches and products by opaque
identifiers only. Navigation is a lookup through the owning repository or
collaborator, never a live object-graph back-reference.
*/
package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"

	"github.com/google/uuid"
)

// Sale aggregate root
type Sale struct {
	id          string
	saleNumber  string
	customerID  string
	branchID    string
	lines       []Line
	totalAmount shared.Money
	cancelled   bool
	version     int // Optimistic lock version for concurrency control
	createdAt   time.Time
	updatedAt   time.Time
	createdBy   string
	updatedBy   string

	// Domain events recorded by the aggregate, pulled by the unit of work
	events []shared.DomainEvent
}

// Line A single product+quantity+discount+total record belonging to exactly
// one Sale. Lines have no lifecycle of their own: a cancelled line is removed
// from the sale, not marked.
type Line struct {
	id          string
	productID   string
	quantity    int
	unitPrice   shared.Money
	discount    shared.Money
	totalAmount shared.Money
}

// LineRequest Input for creating one sale line. Only product, quantity and
// the looked-up unit price are supplied; discount and totals are derived,
// never accepted from the caller.
type LineRequest struct {
	ProductID string
	Quantity  int
	UnitPrice shared.Money
}

// ============================================================================
// Factory
// ============================================================================

// NewSale creates a new Sale aggregate root. This is the only entry point for
// creating a sale: every line is priced through the discount policy, the sale
// number is generated exactly once, and the total is derived from the lines.
func NewSale(customerID, branchID string, requests []LineRequest, policy *DiscountPolicy) (*Sale, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, shared.NewValidationError("sale", "customerId", "customer id is required")
	}
	if strings.TrimSpace(branchID) == "" {
		return nil, shared.NewValidationError("sale", "branchId", "branch id is required")
	}
	if len(requests) == 0 {
		return nil, ErrEmptySaleItems
	}

	lines := make([]Line, len(requests))
	for i, req := range requests {
		line, err := newLine(req, policy)
		if err != nil {
			return nil, err
		}
		lines[i] = *line
	}

	saleID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale ID: %w", err)
	}

	now := time.Now()
	s := &Sale{
		id:         saleID.String(),
		saleNumber: NewSaleNumber(now),
		customerID: customerID,
		branchID:   branchID,
		lines:      lines,
		cancelled:  false,
		version:    0,
		createdAt:  now,
		updatedAt:  now,
		events:     make([]shared.DomainEvent, 0),
	}

	if err := s.RecalculateTotal(); err != nil {
		return nil, err
	}

	s.events = append(s.events, NewSaleCreatedEvent(s.saleNumber, s.totalAmount))

	return s, nil
}

// newLine builds and prices one line.
func newLine(req LineRequest, policy *DiscountPolicy) (*Line, error) {
	if req.Quantity <= 0 {
		return nil, NewInvalidQuantityError(req.Quantity)
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, shared.NewValidationError("sale", "productId", "product id is required")
	}

	lineID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale line ID: %w", err)
	}

	line := &Line{
		id:        lineID.String(),
		productID: req.ProductID,
		quantity:  req.Quantity,
		unitPrice: req.UnitPrice,
	}
	if err := line.price(policy); err != nil {
		return nil, err
	}

	return line, nil
}

// price is the line pricing calculator: it asks the discount policy for the
// applicable discount and derives this line's discount and total. Idempotent,
// and touches only this line; the sale total is the aggregate's concern.
func (l *Line) price(policy *DiscountPolicy) error {
	discount, err := policy.DiscountFor(l.quantity, l.unitPrice)
	if err != nil {
		return err
	}

	subtotal, err := l.unitPrice.Multiply(l.quantity)
	if err != nil {
		return err
	}
	if discount.IsGreaterThan(*subtotal) {
		return ErrDiscountExceedsSubtotal
	}

	total, err := subtotal.Subtract(*discount)
	if err != nil {
		return err
	}
	if !total.IsPositive() {
		return ErrTotalAmountNotPositive
	}

	l.discount = *discount
	l.totalAmount = *total
	return nil
}

// ============================================================================
// Reconstruction - for repository layer use only
// ============================================================================

// ReconstructionDTO Sale reconstruction data, limited to repository usage.
// Keeps the aggregate's fields private without setters or reflection.
type ReconstructionDTO struct {
	ID          string
	SaleNumber  string
	CustomerID  string
	BranchID    string
	Lines       []Line
	TotalAmount shared.Money
	Cancelled   bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
}

// RebuildFromDTO reconstructs a Sale aggregate root from persisted state.
func RebuildFromDTO(dto ReconstructionDTO) *Sale {
	return &Sale{
		id:          dto.ID,
		saleNumber:  dto.SaleNumber,
		customerID:  dto.CustomerID,
		branchID:    dto.BranchID,
		lines:       dto.Lines,
		totalAmount: dto.TotalAmount,
		cancelled:   dto.Cancelled,
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
		createdBy:   dto.CreatedBy,
		updatedBy:   dto.UpdatedBy,
		events:      nil,
	}
}

// LineReconstructionDTO Sale line reconstruction data
type LineReconstructionDTO struct {
	ID          string
	ProductID   string
	Quantity    int
	UnitPrice   shared.Money
	Discount    shared.Money
	TotalAmount shared.Money
}

// RebuildLineFromDTO reconstructs a Line from persisted state.
func RebuildLineFromDTO(dto LineReconstructionDTO) Line {
	return Line{
		id:          dto.ID,
		productID:   dto.ProductID,
		quantity:    dto.Quantity,
		unitPrice:   dto.UnitPrice,
		discount:    dto.Discount,
		totalAmount: dto.TotalAmount,
	}
}

// ============================================================================
// Aggregate behavior
// ============================================================================

// RecalculateTotal sets the sale total to the sum of the current lines'
// totals. This is the only legitimate way the total changes; it must run
// after any line is added, priced or removed.
func (s *Sale) RecalculateTotal() error {
	if s.cancelled {
		return NewAlreadyCancelledError(s.saleNumber)
	}

	currency := s.currency()
	total := shared.NewMoney(0, currency)
	var err error
	for _, line := range s.lines {
		total, err = total.Add(line.totalAmount)
		if err != nil {
			return err
		}
	}

	if !total.IsPositive() {
		return ErrTotalAmountNotPositive
	}

	s.totalAmount = *total
	s.updatedAt = time.Now()
	return nil
}

// Cancel transitions the sale to its terminal state. There is no reactivate:
// a second cancel fails with an invalid-state error and changes nothing.
func (s *Sale) Cancel() error {
	if s.cancelled {
		return NewAlreadyCancelledError(s.saleNumber)
	}

	s.cancelled = true
	s.updatedAt = time.Now()
	s.events = append(s.events, NewSaleCancelledEvent(s.saleNumber, s.totalAmount))

	return nil
}

// CancelLine physically removes a line from the sale. Removing the last
// remaining line of an active sale is rejected: a sale with zero lines has no
// meaning other than "fully cancelled". The caller must reprice the remaining
// lines and recalculate the total afterwards.
func (s *Sale) CancelLine(lineID string) (*Line, error) {
	if s.cancelled {
		return nil, NewAlreadyCancelledError(s.saleNumber)
	}

	idx := -1
	for i, line := range s.lines {
		if line.id == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, NewItemNotFoundError(lineID)
	}

	if len(s.lines) == 1 {
		return nil, NewLastItemError(s.saleNumber)
	}

	removed := s.lines[idx]
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.updatedAt = time.Now()

	return &removed, nil
}

// Reprice re-runs the line pricing calculator for every current line using
// fresh unit prices, then recalculates the sale total. Unit prices may have
// changed since creation, so repricing is a full pass, not a patch. prices
// maps product id to current unit price; a missing product fails the pass.
func (s *Sale) Reprice(policy *DiscountPolicy, prices map[string]shared.Money) error {
	if s.cancelled {
		return NewAlreadyCancelledError(s.saleNumber)
	}

	for i := range s.lines {
		price, ok := prices[s.lines[i].productID]
		if !ok {
			return NewProductNotFoundError(s.lines[i].productID)
		}
		s.lines[i].unitPrice = price
		if err := s.lines[i].price(policy); err != nil {
			return err
		}
	}

	return s.RecalculateTotal()
}

// RecordLineCancellation records the fact that a line was cancelled, carrying
// the totals before and after the removal-and-reprice pass.
func (s *Sale) RecordLineCancellation(productID string, previousTotal shared.Money) {
	s.events = append(s.events,
		NewSaleItemCancelledEvent(s.saleNumber, productID, previousTotal, s.totalAmount))
}

// AttributeCreation sets the creation actor. Audit attribution belongs to the
// handling context, not to the aggregate's own behavior.
func (s *Sale) AttributeCreation(actor string) {
	s.createdBy = actor
	s.updatedBy = actor
}

// AttributeUpdate sets the update actor.
func (s *Sale) AttributeUpdate(actor string) {
	s.updatedBy = actor
}

// IncrementVersionForSave increments the version after successful
// persistence. Called by the repository, so optimistic locking always
// compares against the version read from the database.
func (s *Sale) IncrementVersionForSave() {
	s.version++
}

// currency returns the sale currency, taken from the first line.
// NewSale guarantees at least one line.
func (s *Sale) currency() string {
	if len(s.lines) > 0 {
		return s.lines[0].unitPrice.Currency()
	}
	return s.totalAmount.Currency()
}

// ============================================================================
// Getters
// ============================================================================

func (s *Sale) ID() string         { return s.id }
func (s *Sale) SaleNumber() string { return s.saleNumber }
func (s *Sale) CustomerID() string { return s.customerID }
func (s *Sale) BranchID() string   { return s.branchID }

// Lines returns a copy of the sale lines; the aggregate's internal entities
// cannot be modified from outside.
func (s *Sale) Lines() []Line {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

func (s *Sale) TotalAmount() shared.Money { return s.totalAmount }
func (s *Sale) IsCancelled() bool         { return s.cancelled }
func (s *Sale) Version() int              { return s.version }
func (s *Sale) CreatedAt() time.Time      { return s.createdAt }
func (s *Sale) UpdatedAt() time.Time      { return s.updatedAt }
func (s *Sale) CreatedBy() string         { return s.createdBy }
func (s *Sale) UpdatedBy() string         { return s.updatedBy }

// PullEvents returns and clears the aggregate's recorded events. The unit of
// work calls this in the commit transaction and saves them to the outbox.
func (s *Sale) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(s.events))
	copy(events, s.events)
	s.events = make([]shared.DomainEvent, 0)
	return events
}

// Line getters

func (l Line) ID() string                { return l.id }
func (l Line) ProductID() string         { return l.productID }
func (l Line) Quantity() int             { return l.quantity }
func (l Line) UnitPrice() shared.Money   { return l.unitPrice }
func (l Line) Discount() shared.Money    { return l.discount }
func (l Line) TotalAmount() shared.Money { return l.totalAmount }

// Compile-time check that Sale implements AggregateRoot
var _ shared.AggregateRoot = (*Sale)(nil)

// ============================================================================
// Sale numbers
// ============================================================================

// NewSaleNumber generates a human-facing transaction identifier. Assigned
// once at creation and never reassigned.
func NewSaleNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("S-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}
