package sale

import (
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// Domain events are immutable facts about a sale that already happened.
// They are identified by the human-facing sale number, since that is the
// identifier external consumers know.

type SaleCreatedEvent struct {
	saleNumber  string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewSaleCreatedEvent(saleNumber string, totalAmount shared.Money) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		saleNumber:  saleNumber,
		totalAmount: totalAmount,
		occurredOn:  time.Now(),
	}
}

func (e *SaleCreatedEvent) EventName() string         { return "sale.created" }
func (e *SaleCreatedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *SaleCreatedEvent) GetAggregateID() string    { return e.saleNumber }
func (e *SaleCreatedEvent) SaleNumber() string        { return e.saleNumber }
func (e *SaleCreatedEvent) TotalAmount() shared.Money { return e.totalAmount }

type SaleCancelledEvent struct {
	saleNumber  string
	totalAmount shared.Money
	occurredOn  time.Time
}

// NewSaleCancelledEvent carries the total the sale was frozen at.
func NewSaleCancelledEvent(saleNumber string, totalAmount shared.Money) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		saleNumber:  saleNumber,
		totalAmount: totalAmount,
		occurredOn:  time.Now(),
	}
}

func (e *SaleCancelledEvent) EventName() string         { return "sale.cancelled" }
func (e *SaleCancelledEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *SaleCancelledEvent) GetAggregateID() string    { return e.saleNumber }
func (e *SaleCancelledEvent) SaleNumber() string        { return e.saleNumber }
func (e *SaleCancelledEvent) TotalAmount() shared.Money { return e.totalAmount }

type SaleItemCancelledEvent struct {
	saleNumber    string
	productID     string
	previousTotal shared.Money
	newTotal      shared.Money
	occurredOn    time.Time
}

// NewSaleItemCancelledEvent brackets the change: the sale total before the
// line was removed and the total after the remaining lines were repriced.
func NewSaleItemCancelledEvent(saleNumber, productID string, previousTotal, newTotal shared.Money) *SaleItemCancelledEvent {
	return &SaleItemCancelledEvent{
		saleNumber:    saleNumber,
		productID:     productID,
		previousTotal: previousTotal,
		newTotal:      newTotal,
		occurredOn:    time.Now(),
	}
}

func (e *SaleItemCancelledEvent) EventName() string           { return "sale.item_cancelled" }
func (e *SaleItemCancelledEvent) OccurredOn() time.Time       { return e.occurredOn }
func (e *SaleItemCancelledEvent) GetAggregateID() string      { return e.saleNumber }
func (e *SaleItemCancelledEvent) SaleNumber() string          { return e.saleNumber }
func (e *SaleItemCancelledEvent) ProductID() string           { return e.productID }
func (e *SaleItemCancelledEvent) PreviousTotal() shared.Money { return e.previousTotal }
func (e *SaleItemCancelledEvent) NewTotal() shared.Money      { return e.newTotal }
