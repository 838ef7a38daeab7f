package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending        BookingStatus = "pending"
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCheckedIn      BookingStatus = "checked_in"
	BookingCheckedOut     BookingStatus = "checked_out"
	BookingCancelled      BookingStatus = "cancelled"
	BookingDeclined       BookingStatus = "declined"
)

// HoldingStatuses reserve the physical room against double-booking.
var HoldingStatuses = []BookingStatus{
	BookingPending,
	BookingPendingPayment,
	BookingConfirmed,
	BookingCheckedIn,
}

func (s BookingStatus) HoldsRoom() bool {
	switch s {
	case BookingPending, BookingPendingPayment, BookingConfirmed, BookingCheckedIn:
		return true
	}

	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID            uuid.UUID
	RoomID        uuid.UUID
	PropertyID    uuid.UUID
	StayCode      string
	GuestName     string
	GuestEmail    string
	Range         DateRange
	NumGuests     int
	Status        BookingStatus
	Quote         StayQuote
	PaymentMethod string
	PaymentStatus PaymentStatus
	StatusReason  string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StayQuote is the server-computed price breakdown of a stay. Total is frozen
// into the Booking when it is created.
type StayQuote struct {
	Nights      int   `json:"nights"`
	NightlyRate Money `json:"nightly_rate"`
	Base        Money `json:"base"`
	Discount    Money `json:"discount"`
	CleaningFee Money `json:"cleaning_fee"`
	Total       Money `json:"total"`
	Deposit     Money `json:"deposit"`
}
