// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from form input
// and converting between kobo and Naira representations.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest single amount ParseAmount accepts (10 trillion
// Naira). Sums of thousands of such amounts still fit in an int64.
var MaxAmount = Money{Kobo: 1_000_000_000_000_000}

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a decimal string to Money with half-up rounding to kobo.
//
// Thousands separators and a leading Naira sign are accepted, so "₦1,250.50",
// "1250.5" and " 1250.50 " all parse to 125050 kobo. Negative values are rejected
// with ErrNegativeAmount; anything that is not a number yields ErrInvalidAmount.
// Zero is a valid result: callers apply their own minimums.
func ParseAmount(s string) (Money, error) {
	d, err := ParseNaira(s)
	if err != nil {
		return Money{}, err
	}
	return FromDecimal(d)
}

// ParseNaira reads a form amount as an exact decimal Naira value without
// rounding. It accepts the same input as ParseAmount.
func ParseNaira(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₦")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FromDecimal rounds a Naira value half-up to kobo. Values above MaxAmount
// yield ErrInvalidAmount.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	kobo := d.Mul(hundred).Round(0)
	if kobo.GreaterThan(decimal.NewFromInt(MaxAmount.Kobo)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Kobo: kobo.IntPart()}, nil
}

// Naira returns the amount in Naira as a float64 for display purposes.
// Use Kobo for calculations.
func (m Money) Naira() float64 {
	return float64(m.Kobo) / 100.0
}

// Decimal returns the exact Naira value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Kobo, -2)
}

// Add returns m+o, saturating at the int64 bounds instead of wrapping.
func (m Money) Add(o Money) Money {
	switch {
	case o.Kobo > 0 && m.Kobo > math.MaxInt64-o.Kobo:
		return Money{Kobo: math.MaxInt64}
	case o.Kobo < 0 && m.Kobo < math.MinInt64-o.Kobo:
		return Money{Kobo: math.MinInt64}
	}
	return Money{Kobo: m.Kobo + o.Kobo}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Kobo == 0
}
