package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/ports/mocks"
	"github.com/srgjo27/stay_engine/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	properties *mocks.PropertyRepository
	bookings   *mocks.BookingRepository
	cache      *mocks.AvailabilityCache
	publisher  *mocks.IntentPublisher
	logs       *test.Hook
	service    *services.BookingService

	property *domain.Property
	room     *domain.Room
}

func newBookingFixture(t *testing.T) *bookingFixture {
	logger, hook := test.NewNullLogger()

	f := &bookingFixture{
		properties: mocks.NewPropertyRepository(t),
		bookings:   mocks.NewBookingRepository(t),
		cache:      mocks.NewAvailabilityCache(t),
		publisher:  mocks.NewIntentPublisher(t),
		logs:       hook,
	}

	f.property = &domain.Property{
		ID:                     uuid.New(),
		Timezone:               "Asia/Ho_Chi_Minh",
		Currency:               "USD",
		BookingMode:            domain.BookingModeInstant,
		MinNights:              1,
		MaxNights:              30,
		CleaningFee:            20,
		WeeklyDiscountPercent:  decimal.NewFromInt(10),
		DepositPercent:         decimal.NewFromInt(30),
		AcceptedPaymentMethods: []string{"card", domain.PaymentPayAtProperty},
	}
	f.room = &domain.Room{
		ID:                uuid.New(),
		PropertyID:        f.property.ID,
		Name:              "Garden Villa",
		BasePricePerNight: domain.NewMoney(100, "USD"),
		Capacity:          2,
		IsActive:          true,
	}

	f.service = services.NewBookingService(services.BookingServiceDeps{
		Properties: f.properties,
		Bookings:   f.bookings,
		Cache:      f.cache,
		Publisher:  f.publisher,
		Defaults:   domain.Defaults{Timezone: "UTC", Currency: "USD"},
		Logger:     logger,
		Clock:      func() time.Time { return fixedNow },
	})

	return f
}

func (f *bookingFixture) stay(ctx context.Context) {
	f.properties.On("GetProperty", ctx, f.property.ID).Return(f.property, nil)
	f.properties.On("GetRoom", ctx, f.room.ID).Return(f.room, nil)
}

func (f *bookingFixture) request(checkIn, checkOut, method string) services.CreateBookingRequest {
	return services.CreateBookingRequest{
		PropertyID:    f.property.ID.String(),
		RoomID:        f.room.ID.String(),
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		NumGuests:     2,
		PaymentMethod: method,
		GuestName:     "Lan Nguyen",
		GuestEmail:    "lan@example.com",
	}
}

func intentKinds(kinds ...domain.IntentKind) interface{} {
	return mock.MatchedBy(func(intents []domain.Intent) bool {
		if len(intents) != len(kinds) {
			return false
		}
		for i, k := range kinds {
			if intents[i].Kind != k {
				return false
			}
		}
		return true
	})
}

func TestCreateBooking_InstantCardWaitsForPayment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.stay(ctx)
	f.bookings.On("FindBookingsForRoom", ctx, f.room.ID, mock.AnythingOfType("domain.DateRange")).Return(nil, nil)
	f.bookings.On("InsertBooking", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	f.cache.On("Invalidate", ctx, f.room.ID).Return(nil)
	f.publisher.On("Publish", ctx, intentKinds(domain.IntentRequestPayment)).Return(nil)

	booking, err := f.service.CreateBooking(ctx, f.request("2024-06-01", "2024-06-08", "card"))

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPendingPayment, booking.Status)
	assert.Equal(t, domain.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, 1, booking.Version)
	assert.Len(t, booking.StayCode, 8)

	// 700 base, 10% weekly, plus cleaning
	assert.Equal(t, 7, booking.Quote.Nights)
	assert.Equal(t, int64(70), booking.Quote.Discount.Amount)
	assert.Equal(t, int64(650), booking.Quote.Total.Amount)
	assert.Equal(t, int64(195), booking.Quote.Deposit.Amount)
}

func TestCreateBooking_InquiryStartsPending(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.property.BookingMode = domain.BookingModeInquiry

	f.stay(ctx)
	f.bookings.On("FindBookingsForRoom", ctx, f.room.ID, mock.Anything).Return(nil, nil)
	f.bookings.On("InsertBooking", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	f.cache.On("Invalidate", ctx, f.room.ID).Return(nil)
	f.publisher.On("Publish", ctx, intentKinds(domain.IntentNotifyOwner)).Return(nil)

	booking, err := f.service.CreateBooking(ctx, f.request("2024-06-01", "2024-06-03", "card"))

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, booking.Status)
	assert.Equal(t, domain.PaymentUnpaid, booking.PaymentStatus)
}

func TestCreateBooking_PayAtPropertyConfirms(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.stay(ctx)
	f.bookings.On("FindBookingsForRoom", ctx, f.room.ID, mock.Anything).Return(nil, nil)
	f.bookings.On("InsertBooking", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	f.cache.On("Invalidate", ctx, f.room.ID).Return(nil)
	f.publisher.On("Publish", ctx, intentKinds(domain.IntentNotifyOwner, domain.IntentNotifyGuest)).Return(nil)

	booking, err := f.service.CreateBooking(ctx, f.request("2024-06-01", "2024-06-03", domain.PaymentPayAtProperty))

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, booking.Status)
}

func TestCreateBooking_DateConflict(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	held, err := domain.ParseDateRange("2024-06-02", "2024-06-05")
	require.NoError(t, err)

	f.stay(ctx)
	f.bookings.On("FindBookingsForRoom", ctx, f.room.ID, mock.Anything).Return([]domain.Booking{
		{ID: uuid.New(), RoomID: f.room.ID, Range: held, Status: domain.BookingConfirmed},
	}, nil)

	_, err = f.service.CreateBooking(ctx, f.request("2024-06-04", "2024-06-06", "card"))

	var conflict *domain.DateConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, f.room.ID, conflict.RoomID)
	f.bookings.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
}

func TestCreateBooking_ConflictDetectedAtInsert(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.stay(ctx)
	f.bookings.On("FindBookingsForRoom", ctx, f.room.ID, mock.Anything).Return(nil, nil)
	f.bookings.On("InsertBooking", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(&domain.DateConflictError{RoomID: f.room.ID})

	_, err := f.service.CreateBooking(ctx, f.request("2024-06-04", "2024-06-06", "card"))

	assert.ErrorIs(t, err, domain.ErrDateConflict)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateBooking_Rejections(t *testing.T) {
	for name, tc := range map[string]struct {
		setup    func(f *bookingFixture)
		checkIn  string
		checkOut string
		method   string
		want     error
	}{
		"disabled": {
			setup:    func(f *bookingFixture) { f.property.BookingMode = domain.BookingModeDisabled },
			checkIn:  "2024-06-01",
			checkOut: "2024-06-03",
			method:   "card",
			want:     domain.ErrBookingDisabled,
		},
		"inactive room": {
			setup:    func(f *bookingFixture) { f.room.IsActive = false },
			checkIn:  "2024-06-01",
			checkOut: "2024-06-03",
			method:   "card",
			want:     domain.ErrRoomInactive,
		},
		"over capacity": {
			setup:    func(f *bookingFixture) { f.room.Capacity = 1 },
			checkIn:  "2024-06-01",
			checkOut: "2024-06-03",
			method:   "card",
			want:     domain.ErrCapacityExceeded,
		},
		"payment method": {
			setup:    func(f *bookingFixture) {},
			checkIn:  "2024-06-01",
			checkOut: "2024-06-03",
			method:   "crypto",
			want:     domain.ErrPaymentMethodNotAccepted,
		},
		"too long": {
			setup:    func(f *bookingFixture) {},
			checkIn:  "2024-06-01",
			checkOut: "2024-07-15",
			method:   "card",
			want:     domain.ErrNightsOutOfRange,
		},
		"past check-in": {
			setup:    func(f *bookingFixture) {},
			checkIn:  "2024-04-30",
			checkOut: "2024-05-03",
			method:   "card",
			want:     domain.ErrInvalidRequest,
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newBookingFixture(t)
			ctx := context.Background()
			tc.setup(f)
			f.stay(ctx)

			_, err := f.service.CreateBooking(ctx, f.request(tc.checkIn, tc.checkOut, tc.method))

			assert.ErrorIs(t, err, tc.want)
			f.bookings.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_TodayInPropertyTimezoneAllowed(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.stay(ctx)
	f.bookings.On("FindBookingsForRoom", ctx, f.room.ID, mock.Anything).Return(nil, nil)
	f.bookings.On("InsertBooking", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	f.cache.On("Invalidate", ctx, f.room.ID).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	_, err := f.service.CreateBooking(ctx, f.request("2024-05-01", "2024-05-02", "card"))
	assert.NoError(t, err)
}

func TestCreateBooking_RoomFromOtherProperty(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.room.PropertyID = uuid.New()
	f.stay(ctx)

	_, err := f.service.CreateBooking(ctx, f.request("2024-06-01", "2024-06-03", "card"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	req := f.request("2024-06-03", "2024-06-01", "card")
	_, err := f.service.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	req = f.request("2024-06-01", "2024-06-03", "card")
	req.NumGuests = 0
	_, err = f.service.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	req = f.request("2024-06-01", "2024-06-03", "card")
	req.RoomID = "room-1"
	_, err = f.service.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestBookingApplyAction_Confirm(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.bookings.On("GetBooking", ctx, id).Return(&domain.Booking{
		ID: id, RoomID: f.room.ID, PropertyID: f.property.ID, Status: domain.BookingPending, Version: 3,
	}, nil)
	f.bookings.On("UpdateBookingStatus", ctx, id, domain.BookingPending, domain.BookingConfirmed, "", 3).Return(nil)
	f.publisher.On("Publish", ctx, intentKinds(domain.IntentNotifyGuest)).Return(nil)

	booking, err := f.service.ApplyAction(ctx, id, "confirm", "")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, booking.Status)
	assert.Equal(t, 4, booking.Version)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestBookingApplyAction_CancelReleasesCalendar(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.bookings.On("GetBooking", ctx, id).Return(&domain.Booking{
		ID: id, RoomID: f.room.ID, PropertyID: f.property.ID, Status: domain.BookingConfirmed, Version: 1,
	}, nil)
	f.bookings.On("UpdateBookingStatus", ctx, id, domain.BookingConfirmed, domain.BookingCancelled, "guest asked", 1).Return(nil)
	f.cache.On("Invalidate", ctx, f.room.ID).Return(errors.New("redis down"))
	f.publisher.On("Publish", ctx, intentKinds(domain.IntentReleaseRoom, domain.IntentNotifyGuest, domain.IntentNotifyOwner)).Return(nil)

	booking, err := f.service.ApplyAction(ctx, id, "cancel", "  guest asked ")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, booking.Status)
	assert.Equal(t, "guest asked", booking.StatusReason)

	// a cache failure never fails the transition
	var warned bool
	for _, e := range f.logs.AllEntries() {
		warned = warned || e.Level == logrus.WarnLevel
	}
	assert.True(t, warned)
}

func TestBookingApplyAction_TerminalStatus(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.bookings.On("GetBooking", ctx, id).Return(&domain.Booking{ID: id, Status: domain.BookingCheckedOut, Version: 5}, nil)

	_, err := f.service.ApplyAction(ctx, id, "cancel", "")

	var invalid *domain.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "checked_out", invalid.From)
	f.bookings.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingApplyAction_DeclineNeedsReason(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.bookings.On("GetBooking", ctx, id).Return(&domain.Booking{ID: id, Status: domain.BookingPending, Version: 1}, nil)

	_, err := f.service.ApplyAction(ctx, id, "decline", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = f.service.ApplyAction(ctx, id, "teleport", "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestBookingApplyAction_StaleVersion(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.bookings.On("GetBooking", ctx, id).Return(&domain.Booking{ID: id, Status: domain.BookingConfirmed, Version: 2}, nil)
	f.bookings.On("UpdateBookingStatus", ctx, id, domain.BookingConfirmed, domain.BookingCheckedIn, "", 2).Return(domain.ErrStaleVersion)

	_, err := f.service.ApplyAction(ctx, id, "checkin", "")

	assert.ErrorIs(t, err, domain.ErrStaleVersion)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCalendar_CacheHit(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	rng, err := domain.ParseDateRange("2024-06-01", "2024-07-01")
	require.NoError(t, err)
	cached, _ := domain.ParseDateRange("2024-06-10", "2024-06-12")

	f.cache.On("GetCalendar", ctx, f.room.ID, rng).Return([]domain.DateRange{cached}, true, nil)

	held, err := f.service.Calendar(ctx, f.room.ID, rng)

	require.NoError(t, err)
	assert.Equal(t, []domain.DateRange{cached}, held)
	f.bookings.AssertNotCalled(t, "FindBookingsForRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalendar_CacheMissFiltersReleasedBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	rng, _ := domain.ParseDateRange("2024-06-01", "2024-07-01")
	kept, _ := domain.ParseDateRange("2024-06-10", "2024-06-12")
	released, _ := domain.ParseDateRange("2024-06-15", "2024-06-18")

	f.cache.On("GetCalendar", ctx, f.room.ID, rng).Return(nil, false, nil)
	f.bookings.On("FindBookingsForRoom", ctx, f.room.ID, rng).Return([]domain.Booking{
		{RoomID: f.room.ID, Range: kept, Status: domain.BookingPendingPayment},
		{RoomID: f.room.ID, Range: released, Status: domain.BookingCancelled},
	}, nil)
	f.cache.On("SetCalendar", ctx, f.room.ID, rng, []domain.DateRange{kept}).Return(nil)

	held, err := f.service.Calendar(ctx, f.room.ID, rng)

	require.NoError(t, err)
	assert.Equal(t, []domain.DateRange{kept}, held)
}

func TestCalendar_RangeTooWide(t *testing.T) {
	f := newBookingFixture(t)

	rng, _ := domain.ParseDateRange("2024-01-01", "2025-06-01")
	_, err := f.service.Calendar(context.Background(), f.room.ID, rng)

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestExpireStalePayments(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	stale, paid := uuid.New(), uuid.New()

	f.bookings.On("GetStalePendingPayment", ctx, fixedNow.Add(-30*time.Minute), 100).Return([]uuid.UUID{stale, paid}, nil)
	f.bookings.On("GetBooking", ctx, stale).Return(&domain.Booking{
		ID: stale, RoomID: f.room.ID, PropertyID: f.property.ID, Status: domain.BookingPendingPayment, Version: 1,
	}, nil)
	f.bookings.On("GetBooking", ctx, paid).Return(&domain.Booking{
		ID: paid, RoomID: f.room.ID, Status: domain.BookingConfirmed, Version: 2,
	}, nil)
	f.bookings.On("UpdateBookingStatus", ctx, stale, domain.BookingPendingPayment, domain.BookingCancelled, "payment window expired", 1).Return(nil)
	f.cache.On("Invalidate", ctx, f.room.ID).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	n, err := f.service.ExpireStalePayments(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.bookings.AssertNotCalled(t, "UpdateBookingStatus", ctx, paid, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExpireStalePayments_QueryFails(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetStalePendingPayment", ctx, mock.Anything, 100).Return(nil, errors.New("connection reset"))

	_, err := f.service.ExpireStalePayments(ctx)
	assert.Error(t, err)
}

func TestQuote(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.stay(ctx)

	rng, _ := domain.ParseDateRange("2024-06-01", "2024-06-08")
	quote, err := f.service.Quote(ctx, f.property.ID, f.room.ID, rng)

	require.NoError(t, err)
	assert.Equal(t, int64(650), quote.Total.Amount)
}

func TestQuote_RoomPricedInResolvedCurrency(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.property.Currency = ""
	f.room.BasePricePerNight = domain.Money{Amount: 100}
	f.stay(ctx)

	rng, _ := domain.ParseDateRange("2024-06-01", "2024-06-03")
	quote, err := f.service.Quote(ctx, f.property.ID, f.room.ID, rng)

	require.NoError(t, err)
	assert.Equal(t, "USD", quote.Total.Currency)
	assert.Equal(t, "USD", f.room.BasePricePerNight.Currency)
}
