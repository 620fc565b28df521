package shared

import (
	"errors"
	"fmt"
	"math"
)

// Money value object - a monetary amount
// Stored in the currency's minor unit (e.g. cents) to keep arithmetic exact.
type Money struct {
	amount   int64  // minor units
	currency string // ISO currency code (e.g. USD, BRL)
}

// NewMoney creates a new Money value object
func NewMoney(amount int64, currency string) *Money {
	return &Money{
		amount:   amount,
		currency: currency,
	}
}

// Amount returns the amount in minor units
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() string {
	return m.currency
}

// Add returns a new Money holding the sum
func (m Money) Add(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.New("cannot add money with different currencies")
	}
	if (other.amount > 0 && m.amount > math.MaxInt64-other.amount) ||
		(other.amount < 0 && m.amount < math.MinInt64-other.amount) {
		return nil, errors.New("money addition overflows")
	}

	return &Money{
		amount:   m.amount + other.amount,
		currency: m.currency,
	}, nil
}

// Subtract returns a new Money holding the difference
func (m Money) Subtract(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.New("cannot subtract money with different currencies")
	}

	return &Money{
		amount:   m.amount - other.amount,
		currency: m.currency,
	}, nil
}

// Multiply returns the amount multiplied by a non-negative integer factor
func (m Money) Multiply(factor int) (*Money, error) {
	if factor < 0 {
		return nil, errors.New("money factor must not be negative")
	}
	if factor != 0 && m.amount > math.MaxInt64/int64(factor) {
		return nil, fmt.Errorf("money multiplication overflows: %d * %d", m.amount, factor)
	}

	return &Money{
		amount:   m.amount * int64(factor),
		currency: m.currency,
	}, nil
}

// MultiplyBasisPoints applies a rate expressed in basis points (1000 = 10%)
// and rounds the result to the minor unit, half away from zero.
func (m Money) MultiplyBasisPoints(bps int) (*Money, error) {
	if bps < 0 || bps > 10000 {
		return nil, fmt.Errorf("basis points out of range: %d", bps)
	}
	if bps != 0 && m.amount > math.MaxInt64/int64(bps) {
		return nil, fmt.Errorf("money rate application overflows: %d * %dbps", m.amount, bps)
	}

	scaled := m.amount * int64(bps)
	var rounded int64
	if scaled >= 0 {
		rounded = (scaled + 5000) / 10000
	} else {
		rounded = (scaled - 5000) / 10000
	}

	return &Money{
		amount:   rounded,
		currency: m.currency,
	}, nil
}

// IsGreaterThan reports whether the amount exceeds the other amount
func (m Money) IsGreaterThan(other Money) bool {
	return m.amount > other.amount
}

// IsGreaterThanOrEqual reports whether the amount is at least the other amount
func (m Money) IsGreaterThanOrEqual(other Money) bool {
	return m.amount >= other.amount
}

// IsPositive reports whether the amount is strictly positive
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// Equals compares two Money value objects
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
