// Package pricing computes authoritative prices for stays and service orders.
// Client-submitted prices are never an input.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

const (
	WeeklyTierNights  = 7
	MonthlyTierNights = 28
)

// TaxFunc returns the tax owed on an order. It receives the frozen lines so a
// hook can tax categories differently.
type TaxFunc func(subtotal domain.Money, lines []domain.ServiceOrderLine) (domain.Money, error)

func ZeroTax(subtotal domain.Money, _ []domain.ServiceOrderLine) (domain.Money, error) {
	return domain.Zero(subtotal.Currency), nil
}

// FlatRateTax taxes the whole subtotal at percent, rounded half-up.
func FlatRateTax(percent decimal.Decimal) TaxFunc {
	return func(subtotal domain.Money, _ []domain.ServiceOrderLine) (domain.Money, error) {
		return subtotal.PercentageOf(percent)
	}
}

type Engine struct {
	tax TaxFunc
}

type Option func(*Engine)

func WithTax(fn TaxFunc) Option {
	return func(e *Engine) {
		e.tax = fn
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{tax: ZeroTax}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// QuoteStay prices rng in room. The monthly tier replaces the weekly tier
// rather than stacking on it; the cleaning fee is never discounted.
func (e *Engine) QuoteStay(property *domain.Property, room domain.Room, rng domain.DateRange) (domain.StayQuote, error) {
	nights := rng.Nights()

	minNights := max(property.MinNights, 1)
	if nights < minNights || (property.MaxNights > 0 && nights > property.MaxNights) {
		return domain.StayQuote{}, &domain.NightsOutOfRangeError{Nights: nights, Min: minNights, Max: property.MaxNights}
	}

	nightly := room.BasePricePerNight
	if nightly.Currency != property.Currency {
		return domain.StayQuote{}, &domain.CurrencyMismatchError{Left: property.Currency, Right: nightly.Currency}
	}

	base, err := nightly.Multiply(int64(nights))
	if err != nil {
		return domain.StayQuote{}, err
	}

	discount, err := base.PercentageOf(discountPercent(property, nights))
	if err != nil {
		return domain.StayQuote{}, err
	}

	discounted, err := base.Sub(discount)
	if err != nil {
		return domain.StayQuote{}, err
	}

	cleaning := property.Money(property.CleaningFee)

	total, err := discounted.Add(cleaning)
	if err != nil {
		return domain.StayQuote{}, err
	}

	deposit, err := total.PercentageOf(property.DepositPercent)
	if err != nil {
		return domain.StayQuote{}, err
	}

	return domain.StayQuote{
		Nights:      nights,
		NightlyRate: nightly,
		Base:        base,
		Discount:    discount,
		CleaningFee: cleaning,
		Total:       total,
		Deposit:     deposit,
	}, nil
}

// discountPercent picks exactly one tier. From MonthlyTierNights on the
// monthly rate replaces the weekly one, even when it is zero.
func discountPercent(p *domain.Property, nights int) decimal.Decimal {
	switch {
	case nights >= MonthlyTierNights:
		return p.MonthlyDiscountPercent
	case nights >= WeeklyTierNights:
		return p.WeeklyDiscountPercent
	}

	return decimal.Zero
}

type LineRequest struct {
	ServiceItemID uuid.UUID
	Quantity      int
	Notes         string
}

type OrderPrice struct {
	Lines    []domain.ServiceOrderLine
	Subtotal domain.Money
	Tax      domain.Money
	Total    domain.Money
}

// PriceOrder freezes the current catalog price of every requested item into
// its line. items must hold every referenced id.
func (e *Engine) PriceOrder(currency string, requested []LineRequest, items map[uuid.UUID]domain.ServiceItem) (OrderPrice, error) {
	subtotal := domain.Zero(currency)
	lines := make([]domain.ServiceOrderLine, 0, len(requested))

	for _, req := range requested {
		if req.Quantity < domain.MinLineQuantity || req.Quantity > domain.MaxLineQuantity {
			return OrderPrice{}, domain.Invalid("quantity must be between %d and %d", domain.MinLineQuantity, domain.MaxLineQuantity)
		}

		item, ok := items[req.ServiceItemID]
		if !ok {
			return OrderPrice{}, domain.ErrItemNotFound
		}

		lineTotal, err := item.Price.Multiply(int64(req.Quantity))
		if err != nil {
			return OrderPrice{}, err
		}

		subtotal, err = subtotal.Add(lineTotal)
		if err != nil {
			return OrderPrice{}, err
		}

		lines = append(lines, domain.ServiceOrderLine{
			ServiceItemID: item.ID,
			Name:          item.Name,
			Quantity:      req.Quantity,
			UnitPrice:     item.Price,
			LineTotal:     lineTotal,
			CategoryTag:   item.CategoryTag,
			Automation:    item.Automation,
			Notes:         req.Notes,
		})
	}

	tax := e.tax
	if tax == nil {
		tax = ZeroTax
	}

	taxAmount, err := tax(subtotal, lines)
	if err != nil {
		return OrderPrice{}, err
	}

	total, err := subtotal.Add(taxAmount)
	if err != nil {
		return OrderPrice{}, err
	}

	return OrderPrice{Lines: lines, Subtotal: subtotal, Tax: taxAmount, Total: total}, nil
}
