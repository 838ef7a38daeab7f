package status

import (
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

var Booking = NewMachine("booking",
	map[string]domain.BookingStatus{
		"confirm":  domain.BookingConfirmed,
		"decline":  domain.BookingDeclined,
		"checkin":  domain.BookingCheckedIn,
		"checkout": domain.BookingCheckedOut,
		"cancel":   domain.BookingCancelled,
	},
	Edge[domain.BookingStatus]{From: domain.BookingPending, To: domain.BookingConfirmed, Intents: []domain.IntentKind{domain.IntentNotifyGuest}},
	Edge[domain.BookingStatus]{From: domain.BookingPendingPayment, To: domain.BookingConfirmed, Intents: []domain.IntentKind{domain.IntentNotifyGuest}},
	Edge[domain.BookingStatus]{From: domain.BookingConfirmed, To: domain.BookingCheckedIn},
	Edge[domain.BookingStatus]{From: domain.BookingCheckedIn, To: domain.BookingCheckedOut, Intents: []domain.IntentKind{domain.IntentNotifyGuest}},

	Edge[domain.BookingStatus]{From: domain.BookingPending, To: domain.BookingCancelled, Intents: cancelIntents},
	Edge[domain.BookingStatus]{From: domain.BookingPendingPayment, To: domain.BookingCancelled, Intents: cancelIntents},
	Edge[domain.BookingStatus]{From: domain.BookingConfirmed, To: domain.BookingCancelled, Intents: cancelIntents},
	Edge[domain.BookingStatus]{From: domain.BookingCheckedIn, To: domain.BookingCancelled, Intents: cancelIntents},

	Edge[domain.BookingStatus]{From: domain.BookingPending, To: domain.BookingDeclined, RequiresReason: true, Intents: declineIntents},
	Edge[domain.BookingStatus]{From: domain.BookingPendingPayment, To: domain.BookingDeclined, RequiresReason: true, Intents: declineIntents},
)

var (
	cancelIntents  = []domain.IntentKind{domain.IntentReleaseRoom, domain.IntentNotifyGuest, domain.IntentNotifyOwner}
	declineIntents = []domain.IntentKind{domain.IntentReleaseRoom, domain.IntentNotifyGuest}
)

// InitialBooking picks the status a new booking starts in. Instant bookings
// paid at the property are confirmed straight away; any other instant booking
// waits for payment.
func InitialBooking(mode domain.BookingMode, paymentMethod string) (domain.BookingStatus, []domain.IntentKind, error) {
	switch mode {
	case domain.BookingModeInquiry:
		return domain.BookingPending, []domain.IntentKind{domain.IntentNotifyOwner}, nil
	case domain.BookingModeInstant:
		if paymentMethod == domain.PaymentPayAtProperty {
			return domain.BookingConfirmed, []domain.IntentKind{domain.IntentNotifyOwner, domain.IntentNotifyGuest}, nil
		}
		return domain.BookingPendingPayment, []domain.IntentKind{domain.IntentRequestPayment}, nil
	}

	return "", nil, domain.ErrBookingDisabled
}
