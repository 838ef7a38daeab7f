package status_test

import (
	"errors"
	"testing"

	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allBookingStatuses = []domain.BookingStatus{
	domain.BookingPending,
	domain.BookingPendingPayment,
	domain.BookingConfirmed,
	domain.BookingCheckedIn,
	domain.BookingCheckedOut,
	domain.BookingCancelled,
	domain.BookingDeclined,
}

func TestBooking_HappyPath(t *testing.T) {
	path := []domain.BookingStatus{
		domain.BookingPendingPayment,
		domain.BookingConfirmed,
		domain.BookingCheckedIn,
		domain.BookingCheckedOut,
	}

	for i := 0; i < len(path)-1; i++ {
		res, err := status.Booking.Transition(path[i], path[i+1], "")
		require.NoError(t, err)
		assert.Equal(t, path[i+1], res.To)
	}
}

func TestBooking_TerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []domain.BookingStatus{domain.BookingCheckedOut, domain.BookingCancelled, domain.BookingDeclined} {
		assert.True(t, status.Booking.IsTerminal(from))

		for _, to := range allBookingStatuses {
			_, err := status.Booking.Transition(from, to, "because")

			var invalid *domain.InvalidTransitionError
			require.True(t, errors.As(err, &invalid), "%s -> %s", from, to)
			assert.Equal(t, string(from), invalid.From)
			assert.Equal(t, string(to), invalid.To)
		}
	}
}

func TestBooking_CancelFromHoldingStatuses(t *testing.T) {
	for _, from := range domain.HoldingStatuses {
		res, err := status.Booking.Transition(from, domain.BookingCancelled, "")
		require.NoError(t, err, from)
		assert.Contains(t, res.Intents, domain.IntentReleaseRoom)
	}
}

func TestBooking_DeclineRequiresReason(t *testing.T) {
	_, err := status.Booking.Transition(domain.BookingPending, domain.BookingDeclined, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	res, err := status.Booking.Transition(domain.BookingPending, domain.BookingDeclined, "no availability")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingDeclined, res.To)

	_, err = status.Booking.Transition(domain.BookingConfirmed, domain.BookingDeclined, "too late")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestBooking_CannotSkipConfirmation(t *testing.T) {
	_, err := status.Booking.Transition(domain.BookingPending, domain.BookingCheckedIn, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestBooking_TransitionIntentsAreCopies(t *testing.T) {
	res, err := status.Booking.Transition(domain.BookingPending, domain.BookingCancelled, "")
	require.NoError(t, err)
	res.Intents[0] = "tampered"

	again, err := status.Booking.Transition(domain.BookingPending, domain.BookingCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentReleaseRoom, again.Intents[0])
}

func TestBooking_Target(t *testing.T) {
	to, err := status.Booking.Target("CheckIn")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedIn, to)

	_, err = status.Booking.Target("teleport")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestInitialBooking(t *testing.T) {
	s, intents, err := status.InitialBooking(domain.BookingModeInquiry, "card")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, s)
	assert.Contains(t, intents, domain.IntentNotifyOwner)

	s, intents, err = status.InitialBooking(domain.BookingModeInstant, "card")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPendingPayment, s)
	assert.Contains(t, intents, domain.IntentRequestPayment)

	s, _, err = status.InitialBooking(domain.BookingModeInstant, domain.PaymentPayAtProperty)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, s)

	_, _, err = status.InitialBooking(domain.BookingModeDisabled, "card")
	assert.ErrorIs(t, err, domain.ErrBookingDisabled)
}

func lines(levels ...domain.AutomationLevel) []domain.ServiceOrderLine {
	out := make([]domain.ServiceOrderLine, 0, len(levels))
	for _, l := range levels {
		out = append(out, domain.ServiceOrderLine{Automation: l, Quantity: 1})
	}
	return out
}

func TestInitialOrder_AutomationAggregation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		levels []domain.AutomationLevel
		want   domain.ServiceOrderStatus
	}{
		{"all auto", []domain.AutomationLevel{domain.AutomationAutoConfirm, domain.AutomationAutoConfirm}, domain.OrderConfirmed},
		{"mixed automated", []domain.AutomationLevel{domain.AutomationAutoConfirm, domain.AutomationWhatsAppNotify, domain.AutomationSelfService}, domain.OrderConfirmed},
		{"single manual", []domain.AutomationLevel{domain.AutomationManual}, domain.OrderPending},
		{"manual last", []domain.AutomationLevel{domain.AutomationAutoConfirm, domain.AutomationSelfService, domain.AutomationManual}, domain.OrderPending},
		{"manual first", []domain.AutomationLevel{domain.AutomationManual, domain.AutomationAutoConfirm}, domain.OrderPending},
		{"unknown level", []domain.AutomationLevel{"robot"}, domain.OrderPending},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, status.InitialOrder(lines(tc.levels...)).Status)
		})
	}
}

func TestInitialOrder_Minibar(t *testing.T) {
	start := status.InitialOrder(lines(domain.AutomationAutoConfirm, domain.AutomationSelfService))
	assert.True(t, start.IsMinibarConsumption)
	assert.Nil(t, start.OwnerConfirmed)
	assert.Contains(t, start.Intents, domain.IntentReconcileMinibar)

	start = status.InitialOrder(lines(domain.AutomationAutoConfirm))
	assert.False(t, start.IsMinibarConsumption)
	require.NotNil(t, start.OwnerConfirmed)
	assert.False(t, *start.OwnerConfirmed)
}

func TestInitialOrder_Intents(t *testing.T) {
	start := status.InitialOrder(lines(domain.AutomationWhatsAppNotify))
	assert.Equal(t, []domain.IntentKind{domain.IntentNotifyOwnerWhatsApp, domain.IntentNotifyGuest}, start.Intents)

	start = status.InitialOrder(lines(domain.AutomationManual))
	assert.Equal(t, []domain.IntentKind{domain.IntentNotifyOwner}, start.Intents)
}

func TestServiceOrder_Transitions(t *testing.T) {
	_, err := status.ServiceOrder.Transition(domain.OrderPending, domain.OrderRejected, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	res, err := status.ServiceOrder.Transition(domain.OrderPending, domain.OrderRejected, "kitchen closed")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderRejected, res.To)

	_, err = status.ServiceOrder.Transition(domain.OrderConfirmed, domain.OrderRejected, "changed mind")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.True(t, status.ServiceOrder.IsTerminal(domain.OrderConfirmed))
}
