package sale

import (
	"regexp"
	"testing"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(amount int64) shared.Money {
	return *shared.NewMoney(amount, "USD")
}

func testRequests() []LineRequest {
	return []LineRequest{
		{ProductID: "prod-001", Quantity: 5, UnitPrice: usd(2000)},
		{ProductID: "prod-002", Quantity: 2, UnitPrice: usd(500)},
	}
}

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	s, err := NewSale("cust-1", "branch-1", testRequests(), DefaultDiscountPolicy())
	require.NoError(t, err)
	return s
}

func TestNewSalePricesEveryLine(t *testing.T) {
	s := newTestSale(t)

	lines := s.Lines()
	require.Len(t, lines, 2)

	// 5 x 20.00 at 10%: subtotal 100.00, discount 10.00, total 90.00
	assert.Equal(t, int64(1000), lines[0].Discount().Amount())
	assert.Equal(t, int64(9000), lines[0].TotalAmount().Amount())

	// 2 x 5.00, no discount below 4 items
	assert.Equal(t, int64(0), lines[1].Discount().Amount())
	assert.Equal(t, int64(1000), lines[1].TotalAmount().Amount())

	assert.Equal(t, int64(10000), s.TotalAmount().Amount())
	assert.False(t, s.IsCancelled())
	assert.Equal(t, 0, s.Version())
}

func TestNewSaleRecordsCreatedEvent(t *testing.T) {
	s := newTestSale(t)

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "sale.created", events[0].EventName())
	assert.Equal(t, s.SaleNumber(), events[0].GetAggregateID())

	assert.Empty(t, s.PullEvents(), "events are cleared after pulling")
}

func TestNewSaleValidation(t *testing.T) {
	policy := DefaultDiscountPolicy()

	_, err := NewSale("", "branch-1", testRequests(), policy)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewSale("cust-1", "", testRequests(), policy)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewSale("cust-1", "branch-1", nil, policy)
	assert.ErrorIs(t, err, ErrEmptySaleItems)

	_, err = NewSale("cust-1", "branch-1", []LineRequest{
		{ProductID: "prod-001", Quantity: 21, UnitPrice: usd(2000)},
	}, policy)
	assert.ErrorIs(t, err, ErrQuantityOverLimit)

	_, err = NewSale("cust-1", "branch-1", []LineRequest{
		{ProductID: "prod-001", Quantity: 0, UnitPrice: usd(2000)},
	}, policy)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSaleNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	number := NewSaleNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^S-20260315-[0-9A-F]{8}$`), number)
}

func TestCancelIsTerminal(t *testing.T) {
	s := newTestSale(t)
	s.PullEvents()
	frozenTotal := s.TotalAmount()

	require.NoError(t, s.Cancel())
	assert.True(t, s.IsCancelled())

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "sale.cancelled", events[0].EventName())
	cancelled, ok := events[0].(*SaleCancelledEvent)
	require.True(t, ok)
	assert.True(t, frozenTotal.Equals(cancelled.TotalAmount()), "cancellation freezes the total")

	err := s.Cancel()
	assert.ErrorIs(t, err, ErrSaleAlreadyCancelled)
	assert.Empty(t, s.PullEvents(), "a failed cancel records nothing")
}

func TestCancelledSaleRejectsMutation(t *testing.T) {
	s := newTestSale(t)
	lineID := s.Lines()[0].ID()
	require.NoError(t, s.Cancel())

	_, err := s.CancelLine(lineID)
	assert.ErrorIs(t, err, ErrSaleAlreadyCancelled)

	err = s.RecalculateTotal()
	assert.ErrorIs(t, err, ErrSaleAlreadyCancelled)

	err = s.Reprice(DefaultDiscountPolicy(), map[string]shared.Money{})
	assert.ErrorIs(t, err, ErrSaleAlreadyCancelled)
}

func TestCancelLineRemovesAndReturnsLine(t *testing.T) {
	s := newTestSale(t)
	target := s.Lines()[0]

	removed, err := s.CancelLine(target.ID())
	require.NoError(t, err)
	assert.Equal(t, target.ProductID(), removed.ProductID())
	assert.Len(t, s.Lines(), 1)
}

func TestCancelLineUnknownID(t *testing.T) {
	s := newTestSale(t)

	_, err := s.CancelLine("no-such-line")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCancelLastLineRejected(t *testing.T) {
	policy := DefaultDiscountPolicy()
	s, err := NewSale("cust-1", "branch-1", []LineRequest{
		{ProductID: "prod-001", Quantity: 1, UnitPrice: usd(2000)},
	}, policy)
	require.NoError(t, err)

	_, err = s.CancelLine(s.Lines()[0].ID())
	assert.ErrorIs(t, err, ErrLastItem)
	assert.Len(t, s.Lines(), 1, "the rejected removal changes nothing")
}

func TestRepriceUsesFreshPrices(t *testing.T) {
	s := newTestSale(t)

	// prod-001 price moved from 20.00 to 30.00
	prices := map[string]shared.Money{
		"prod-001": usd(3000),
		"prod-002": usd(500),
	}
	require.NoError(t, s.Reprice(DefaultDiscountPolicy(), prices))

	lines := s.Lines()
	// 5 x 30.00 at 10%: subtotal 150.00, discount 15.00, total 135.00
	assert.Equal(t, int64(1500), lines[0].Discount().Amount())
	assert.Equal(t, int64(13500), lines[0].TotalAmount().Amount())
	assert.Equal(t, int64(14500), s.TotalAmount().Amount())
}

func TestRepriceMissingPriceFails(t *testing.T) {
	s := newTestSale(t)

	err := s.Reprice(DefaultDiscountPolicy(), map[string]shared.Money{
		"prod-001": usd(2000),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRecalculateTotalIsIdempotent(t *testing.T) {
	s := newTestSale(t)
	before := s.TotalAmount()

	require.NoError(t, s.RecalculateTotal())
	require.NoError(t, s.RecalculateTotal())
	assert.True(t, before.Equals(s.TotalAmount()))
}

func TestLineCancellationEventBracketsTotals(t *testing.T) {
	s := newTestSale(t)
	s.PullEvents()
	previous := s.TotalAmount()

	removed, err := s.CancelLine(s.Lines()[1].ID())
	require.NoError(t, err)
	require.NoError(t, s.RecalculateTotal())
	s.RecordLineCancellation(removed.ProductID(), previous)

	events := s.PullEvents()
	require.Len(t, events, 1)
	event, ok := events[0].(*SaleItemCancelledEvent)
	require.True(t, ok)
	assert.Equal(t, "sale.item_cancelled", event.EventName())
	assert.Equal(t, "prod-002", event.ProductID())
	assert.Equal(t, int64(10000), event.PreviousTotal().Amount())
	assert.Equal(t, int64(9000), event.NewTotal().Amount())
}

func TestRebuildFromDTORecordsNoEvents(t *testing.T) {
	s := newTestSale(t)
	s.PullEvents()

	rebuilt := RebuildFromDTO(ReconstructionDTO{
		ID:          s.ID(),
		SaleNumber:  s.SaleNumber(),
		CustomerID:  s.CustomerID(),
		BranchID:    s.BranchID(),
		Lines:       s.Lines(),
		TotalAmount: s.TotalAmount(),
		Cancelled:   false,
		Version:     3,
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	})

	assert.Equal(t, 3, rebuilt.Version())
	assert.Empty(t, rebuilt.PullEvents(), "rehydration is not a business change")
	assert.True(t, s.TotalAmount().Equals(rebuilt.TotalAmount()))
}
