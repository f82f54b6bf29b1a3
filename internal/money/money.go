// Package money holds monetary values as integer minor units. Nothing in
// this codebase ever represents an amount as a binary float.
package money

import (
	"errors"
	"fmt"
)

var ErrCurrencyMismatch = errors.New("money: currency mismatch")

// Money is an amount in minor units (cents) of a single currency.
type Money struct {
	Amount   int64  `json:"amount_cents"`
	Currency string `json:"currency"`
}

func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

func (m Money) IsZero() bool { return m.Amount == 0 }

func (m Money) IsNegative() bool { return m.Amount < 0 }

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount + o.Amount, Currency: m.Currency}, nil
}

func (m Money) Sub(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount - o.Amount, Currency: m.Currency}, nil
}

func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

// MulRatio multiplies by num/den with a single round-half-up at the end.
// Callers must not chain MulRatio results through further rounding steps.
func (m Money) MulRatio(num, den int64) Money {
	return Money{Amount: DivRoundHalfUp(m.Amount*num, den), Currency: m.Currency}
}

// PercentBps applies a basis-point percentage (10000 bps = 100%), rounded
// half up to the nearest minor unit.
func (m Money) PercentBps(bps int64) Money {
	return Money{Amount: DivRoundHalfUp(m.Amount*bps, 10000), Currency: m.Currency}
}

// Min returns the smaller of two amounts. Currencies must already agree.
func Min(a, b Money) Money {
	if b.Amount < a.Amount {
		return b
	}
	return a
}

// DivRoundHalfUp divides num by den rounding half away from zero.
// den must be positive.
func DivRoundHalfUp(num, den int64) int64 {
	if den <= 0 {
		panic("money: non-positive divisor")
	}
	neg := num < 0
	if neg {
		num = -num
	}
	q := (2*num + den) / (2 * den)
	if neg {
		return -q
	}
	return q
}
