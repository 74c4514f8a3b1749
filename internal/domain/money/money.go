// Package money provides the monetary value used for catalog prices and order
// totals. All amounts share a single currency configured at the edge of the
// system.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/order-capture/internal/domain/domainerr"
)

// Money is an immutable non-negative amount. The zero value is a valid zero
// amount.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// New returns Money for amount. Negative amounts are rejected.
func New(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, domainerr.InvalidValue("amount", "amount must not be negative")
	}
	return Money{amount: amount}, nil
}

// NewFromString parses a decimal string such as "12.50".
func NewFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, domainerr.InvalidValue("amount", "amount is not a decimal number")
	}
	return New(d)
}

// MustParse is like NewFromString but panics on error. Intended for
// constants and tests.
func MustParse(s string) Money {
	m, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the underlying decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Multiply returns m * quantity. Negative quantities are rejected.
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity < 0 {
		return Money{}, domainerr.InvalidValue("quantity", "multiplier must not be negative")
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}, nil
}

// Add returns m + other. The sum of two non-negative amounts is non-negative.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Equal reports whether both amounts are numerically equal, so 1.5 equals
// 1.50.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String formats the amount with two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
