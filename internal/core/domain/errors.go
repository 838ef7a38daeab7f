package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest            = errors.New("invalid request")
	ErrAccessDenied              = errors.New("access denied")
	ErrSessionExpired            = errors.New("session expired")
	ErrNotFound                  = errors.New("not found")
	ErrItemNotFound              = errors.New("service item not found")
	ErrOutOfStock                = errors.New("service item out of stock")
	ErrOutsideAvailabilityWindow = errors.New("service item outside availability window")
	ErrDateConflict              = errors.New("room is not available for the requested dates")
	ErrInvalidTransition         = errors.New("invalid status transition")
	ErrNightsOutOfRange          = errors.New("number of nights out of range")
	ErrCurrencyMismatch          = errors.New("currency mismatch")
	ErrStaleVersion              = errors.New("record was modified by another request")
	ErrBookingDisabled           = errors.New("property does not accept bookings")
	ErrPaymentMethodNotAccepted  = errors.New("payment method not accepted")
	ErrCapacityExceeded          = errors.New("number of guests exceeds room capacity")
	ErrRoomInactive              = errors.New("room is not available for booking")
	ErrStayNotActive             = errors.New("stay is not active")
	ErrRequestInProgress         = errors.New("request with this idempotency key is in progress")
)

type ValidationError struct {
	Reason string
}

func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// ItemUnavailableError rejects a single order line. Window is set only when
// the rejection is time-of-day based.
type ItemUnavailableError struct {
	ItemID uuid.UUID
	Name   string
	Window *TimeWindow
	cause  error
}

func OutOfStock(itemID uuid.UUID, name string) *ItemUnavailableError {
	return &ItemUnavailableError{ItemID: itemID, Name: name, cause: ErrOutOfStock}
}

func OutsideWindow(itemID uuid.UUID, name string, window TimeWindow) *ItemUnavailableError {
	return &ItemUnavailableError{ItemID: itemID, Name: name, Window: &window, cause: ErrOutsideAvailabilityWindow}
}

func (e *ItemUnavailableError) Error() string {
	if e.Window != nil {
		return fmt.Sprintf("%s is only available between %s and %s", e.Name, e.Window.From, e.Window.Until)
	}

	return fmt.Sprintf("%s is currently out of stock", e.Name)
}

func (e *ItemUnavailableError) Unwrap() error {
	return e.cause
}

type DateConflictError struct {
	RoomID uuid.UUID
	Range  DateRange
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("room is already booked between %s and %s", e.Range.CheckIn.Format(DateLayout), e.Range.CheckOut.Format(DateLayout))
}

func (e *DateConflictError) Is(target error) bool {
	return target == ErrDateConflict
}

type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type NightsOutOfRangeError struct {
	Nights int
	Min    int
	Max    int
}

func (e *NightsOutOfRangeError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("stay must be between %d and %d nights, got %d", e.Min, e.Max, e.Nights)
	}

	return fmt.Sprintf("stay must be at least %d nights, got %d", e.Min, e.Nights)
}

func (e *NightsOutOfRangeError) Is(target error) bool {
	return target == ErrNightsOutOfRange
}

type CurrencyMismatchError struct {
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}

func (e *CurrencyMismatchError) Is(target error) bool {
	return target == ErrCurrencyMismatch
}
