package sale

import (
	"errors"
	"testing"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscountPolicyValidation(t *testing.T) {
	tests := []struct {
		name  string
		tiers []DiscountTier
	}{
		{"empty table", nil},
		{"does not start at 1", []DiscountTier{
			{MinQuantity: 2, MaxQuantity: 10, RateBps: 0},
		}},
		{"gap between tiers", []DiscountTier{
			{MinQuantity: 1, MaxQuantity: 3, RateBps: 0},
			{MinQuantity: 5, MaxQuantity: 10, RateBps: 1000},
		}},
		{"overlapping tiers", []DiscountTier{
			{MinQuantity: 1, MaxQuantity: 5, RateBps: 0},
			{MinQuantity: 4, MaxQuantity: 10, RateBps: 1000},
		}},
		{"inverted band", []DiscountTier{
			{MinQuantity: 1, MaxQuantity: 0, RateBps: 0},
		}},
		{"rate above 100 percent", []DiscountTier{
			{MinQuantity: 1, MaxQuantity: 10, RateBps: 10001},
		}},
		{"decreasing rate", []DiscountTier{
			{MinQuantity: 1, MaxQuantity: 3, RateBps: 1000},
			{MinQuantity: 4, MaxQuantity: 10, RateBps: 500},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDiscountPolicy(tt.tiers)
			assert.ErrorIs(t, err, ErrInvalidPolicy)
		})
	}
}

func TestDefaultDiscountPolicyRates(t *testing.T) {
	policy := DefaultDiscountPolicy()

	tests := []struct {
		quantity int
		wantBps  int
	}{
		{1, 0},
		{3, 0},
		{4, 1000},
		{9, 1000},
		{10, 2000},
		{20, 2000},
	}

	for _, tt := range tests {
		rate, err := policy.RateFor(tt.quantity)
		require.NoError(t, err, "quantity %d", tt.quantity)
		assert.Equal(t, tt.wantBps, rate, "quantity %d", tt.quantity)
	}
}

func TestRateForRejectsUnsellableQuantities(t *testing.T) {
	policy := DefaultDiscountPolicy()

	_, err := policy.RateFor(0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = policy.RateFor(-3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = policy.RateFor(21)
	assert.ErrorIs(t, err, ErrQuantityOverLimit)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDiscountFor(t *testing.T) {
	policy := DefaultDiscountPolicy()
	unitPrice := shared.NewMoney(2000, "USD") // 20.00

	// 5 x 20.00 = 100.00 subtotal, 10% discount = 10.00
	discount, err := policy.DiscountFor(5, *unitPrice)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), discount.Amount())

	// 2 x 20.00, below the first discounted band
	discount, err = policy.DiscountFor(2, *unitPrice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), discount.Amount())

	// 10 x 20.00 = 200.00 subtotal, 20% discount = 40.00
	discount, err = policy.DiscountFor(10, *unitPrice)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), discount.Amount())
}

func TestDiscountForRoundsHalfAwayFromZero(t *testing.T) {
	policy := DefaultDiscountPolicy()

	// 5 x 0.25 = 1.25 subtotal, 10% = 0.125, rounds to 0.13
	discount, err := policy.DiscountFor(5, *shared.NewMoney(25, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(13), discount.Amount())
}

func TestMaxQuantityIsLastTierBound(t *testing.T) {
	policy, err := NewDiscountPolicy([]DiscountTier{
		{MinQuantity: 1, MaxQuantity: 5, RateBps: 0},
		{MinQuantity: 6, MaxQuantity: 50, RateBps: 500},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, policy.MaxQuantity())
}

func TestTiersReturnsCopy(t *testing.T) {
	policy := DefaultDiscountPolicy()
	tiers := policy.Tiers()
	tiers[0].RateBps = 9999

	rate, err := policy.RateFor(1)
	require.NoError(t, err)
	assert.Equal(t, 0, rate, "mutating the returned slice must not affect the policy")
}

func TestQuantityOverLimitErrorIsValidation(t *testing.T) {
	err := NewQuantityOverLimitError(25, 20)
	assert.ErrorIs(t, err, ErrQuantityOverLimit)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	var stacker shared.Stacker
	assert.True(t, errors.As(err, &stacker))
	assert.NotEmpty(t, stacker.Stack())
}
