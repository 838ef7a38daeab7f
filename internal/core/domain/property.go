package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingMode string

const (
	BookingModeDisabled BookingMode = "disabled"
	BookingModeInquiry  BookingMode = "inquiry"
	BookingModeInstant  BookingMode = "instant"
)

const PaymentPayAtProperty = "pay_at_property"

// Defaults replaces per-call-site fallbacks for properties that have no
// timezone or currency configured.
type Defaults struct {
	Timezone string
	Currency string
}

type Property struct {
	ID                     uuid.UUID
	OwnerID                uuid.UUID
	Name                   string
	Timezone               string
	Currency               string
	BookingMode            BookingMode
	MinNights              int
	MaxNights              int
	CleaningFee            int64
	WeeklyDiscountPercent  decimal.Decimal
	MonthlyDiscountPercent decimal.Decimal
	DepositPercent         decimal.Decimal
	AcceptedPaymentMethods []string

	location *time.Location
}

// Resolve fills timezone and currency from defaults and loads the IANA
// location once, so later calls never fall back inline.
func (p *Property) Resolve(d Defaults) error {
	if p.Timezone == "" {
		p.Timezone = d.Timezone
	}
	if p.Currency == "" {
		p.Currency = d.Currency
	}
	if p.MinNights < 1 {
		p.MinNights = 1
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return fmt.Errorf("property %s: invalid timezone %q: %w", p.ID, p.Timezone, err)
	}
	p.location = loc

	return nil
}

func (p *Property) Location() *time.Location {
	if p.location == nil {
		return time.UTC
	}

	return p.location
}

// Price expresses amount in the property's resolved currency. Rooms and
// service items carry no currency of their own.
func (p *Property) Price(amount int64) Money {
	return NewMoney(amount, p.Currency)
}

func (p *Property) AcceptsPayment(method string) bool {
	return slices.Contains(p.AcceptedPaymentMethods, method)
}

func (p *Property) Money(amount int64) Money {
	return NewMoney(amount, p.Currency)
}

type Room struct {
	ID                uuid.UUID
	PropertyID        uuid.UUID
	Name              string
	BasePricePerNight Money
	Capacity          int
	IsActive          bool
}
