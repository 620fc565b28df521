package sale

import (
	"fmt"
	"sort"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// DiscountTier One quantity band mapped to a fixed discount rate.
// Rates are expressed in basis points (1000 = 10%).
type DiscountTier struct {
	MinQuantity int
	MaxQuantity int
	RateBps     int
}

// DiscountPolicy The single source of truth for discount eligibility.
// A pure, side-effect-free mapping from line quantity to the discount amount,
// backed by an ordered table of non-overlapping quantity bands. Quantities
// above the highest band are rejected rather than capped: the upper bound of
// the last tier is the maximum sellable amount for one product in one sale.
//
// The tier boundaries and rates are business parameters supplied through
// configuration; see NewDiscountPolicy.
type DiscountPolicy struct {
	tiers []DiscountTier
}

// NewDiscountPolicy builds a policy from a tier table, validating its shape:
// bands must start at quantity 1, be contiguous, non-overlapping, and carry
// non-decreasing rates within [0, 10000] basis points.
func NewDiscountPolicy(tiers []DiscountTier) (*DiscountPolicy, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers configured", ErrInvalidPolicy)
	}

	sorted := make([]DiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	if sorted[0].MinQuantity != 1 {
		return nil, fmt.Errorf("%w: first tier must start at quantity 1, got %d",
			ErrInvalidPolicy, sorted[0].MinQuantity)
	}

	prevRate := -1
	for i, tier := range sorted {
		if tier.MaxQuantity < tier.MinQuantity {
			return nil, fmt.Errorf("%w: tier %d has max quantity %d below min quantity %d",
				ErrInvalidPolicy, i, tier.MaxQuantity, tier.MinQuantity)
		}
		if tier.RateBps < 0 || tier.RateBps > 10000 {
			return nil, fmt.Errorf("%w: tier %d rate %d out of range [0, 10000]",
				ErrInvalidPolicy, i, tier.RateBps)
		}
		if tier.RateBps < prevRate {
			return nil, fmt.Errorf("%w: tier %d rate %d decreases below previous tier",
				ErrInvalidPolicy, i, tier.RateBps)
		}
		if i > 0 && tier.MinQuantity != sorted[i-1].MaxQuantity+1 {
			return nil, fmt.Errorf("%w: tier %d leaves a gap or overlap after quantity %d",
				ErrInvalidPolicy, i, sorted[i-1].MaxQuantity)
		}
		prevRate = tier.RateBps
	}

	return &DiscountPolicy{tiers: sorted}, nil
}

// DefaultDiscountPolicy returns the stock policy: no discount below 4
// identical items, 10% from 4 items, 20% from 10 items, and a hard cap of
// 20 identical items per sale line.
func DefaultDiscountPolicy() *DiscountPolicy {
	policy, err := NewDiscountPolicy([]DiscountTier{
		{MinQuantity: 1, MaxQuantity: 3, RateBps: 0},
		{MinQuantity: 4, MaxQuantity: 9, RateBps: 1000},
		{MinQuantity: 10, MaxQuantity: 20, RateBps: 2000},
	})
	if err != nil {
		// The built-in table is statically valid
		panic(err)
	}
	return policy
}

// MaxQuantity returns the maximum sellable amount for one product line.
func (p *DiscountPolicy) MaxQuantity() int {
	return p.tiers[len(p.tiers)-1].MaxQuantity
}

// RateFor returns the discount rate in basis points for a quantity, or a
// validation error if the quantity is not sellable.
func (p *DiscountPolicy) RateFor(quantity int) (int, error) {
	if quantity <= 0 {
		return 0, NewInvalidQuantityError(quantity)
	}
	if quantity > p.MaxQuantity() {
		return 0, NewQuantityOverLimitError(quantity, p.MaxQuantity())
	}

	// Tiers are contiguous from 1, so exactly one band matches
	for _, tier := range p.tiers {
		if quantity >= tier.MinQuantity && quantity <= tier.MaxQuantity {
			return tier.RateBps, nil
		}
	}

	// Unreachable given the table validation in NewDiscountPolicy
	return 0, fmt.Errorf("%w: no tier matches quantity %d", ErrInvalidPolicy, quantity)
}

// DiscountFor computes the discount amount for a quantity at a unit price:
// unitPrice x quantity x rate, rounded to the minor unit half away from zero.
func (p *DiscountPolicy) DiscountFor(quantity int, unitPrice shared.Money) (*shared.Money, error) {
	rate, err := p.RateFor(quantity)
	if err != nil {
		return nil, err
	}

	subtotal, err := unitPrice.Multiply(quantity)
	if err != nil {
		return nil, err
	}

	return subtotal.MultiplyBasisPoints(rate)
}

// Tiers returns a copy of the policy table.
func (p *DiscountPolicy) Tiers() []DiscountTier {
	tiers := make([]DiscountTier, len(p.tiers))
	copy(tiers, p.tiers)
	return tiers
}
