package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var ErrAmountOverflow = errors.New("money: amount overflow")

// Money is an amount in the smallest unit of its currency (cents for USD,
// whole dong for VND). Values are immutable; every operation returns a copy.
//
// All percentage math rounds half-up (half away from zero), so fees,
// discounts and deposits agree with what a guest computes by hand.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func Zero(currency string) Money {
	return Money{Currency: currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, &CurrencyMismatchError{Left: m.Currency, Right: other.Currency}
	}

	sum := m.Amount + other.Amount
	if (other.Amount > 0 && sum < m.Amount) || (other.Amount < 0 && sum > m.Amount) {
		return Money{}, ErrAmountOverflow
	}

	return Money{Amount: sum, Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if other.Amount == math.MinInt64 {
		return Money{}, ErrAmountOverflow
	}

	return m.Add(Money{Amount: -other.Amount, Currency: other.Currency})
}

func (m Money) Multiply(quantity int64) (Money, error) {
	if m.Amount == 0 || quantity == 0 {
		return Money{Currency: m.Currency}, nil
	}

	product := m.Amount * quantity
	if product/quantity != m.Amount || (m.Amount == math.MinInt64 && quantity == -1) {
		return Money{}, ErrAmountOverflow
	}

	return Money{Amount: product, Currency: m.Currency}, nil
}

// PercentageOf returns percent% of m rounded half-up to the currency unit.
func (m Money) PercentageOf(percent decimal.Decimal) (Money, error) {
	v := decimal.NewFromInt(m.Amount).Mul(percent).Div(decimal.NewFromInt(100)).Round(0)
	if !v.IsInteger() || v.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || v.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return Money{}, ErrAmountOverflow
	}

	return Money{Amount: v.IntPart(), Currency: m.Currency}, nil
}

func (m Money) Compare(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, &CurrencyMismatchError{Left: m.Currency, Right: other.Currency}
	}

	switch {
	case m.Amount < other.Amount:
		return -1, nil
	case m.Amount > other.Amount:
		return 1, nil
	}

	return 0, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}
