package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/availability"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/ports"
	"github.com/srgjo27/stay_engine/internal/core/pricing"
	"github.com/srgjo27/stay_engine/internal/core/status"
	"github.com/srgjo27/stay_engine/internal/core/validation"
)

const (
	expiryBatchSize     = 100
	expiredPaymentNote  = "payment window expired"
	defaultPaymentHold  = 30 * time.Minute
	maxCalendarLookDays = 366
)

type CreateBookingRequest struct {
	PropertyID    string `json:"property_id" validate:"required,uuid"`
	RoomID        string `json:"room_id" validate:"required,uuid"`
	CheckIn       string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut      string `json:"check_out" validate:"required,datetime=2006-01-02"`
	NumGuests     int    `json:"num_guests" validate:"min=1"`
	PaymentMethod string `json:"payment_method" validate:"required,max=32"`
	GuestName     string `json:"guest_name" validate:"max=200"`
	GuestEmail    string `json:"guest_email" validate:"omitempty,email,max=254"`
}

func (r CreateBookingRequest) normalize() CreateBookingRequest {
	r.PropertyID = strings.ToLower(strings.TrimSpace(r.PropertyID))
	r.RoomID = strings.ToLower(strings.TrimSpace(r.RoomID))
	r.CheckIn = strings.TrimSpace(r.CheckIn)
	r.CheckOut = strings.TrimSpace(r.CheckOut)
	r.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.GuestEmail = strings.TrimSpace(r.GuestEmail)
	return r
}

type BookingServiceDeps struct {
	Properties  ports.PropertyRepository
	Bookings    ports.BookingRepository
	Cache       ports.AvailabilityCache
	Publisher   ports.IntentPublisher
	Pricing     *pricing.Engine
	Defaults    domain.Defaults
	PaymentHold time.Duration
	Logger      *logrus.Logger
	Clock       func() time.Time
}

type BookingService struct {
	properties  ports.PropertyRepository
	bookings    ports.BookingRepository
	cache       ports.AvailabilityCache
	publisher   ports.IntentPublisher
	pricing     *pricing.Engine
	defaults    domain.Defaults
	paymentHold time.Duration
	log         *logrus.Logger
	now         func() time.Time
}

func NewBookingService(deps BookingServiceDeps) *BookingService {
	s := &BookingService{
		properties:  deps.Properties,
		bookings:    deps.Bookings,
		cache:       deps.Cache,
		publisher:   deps.Publisher,
		pricing:     deps.Pricing,
		defaults:    deps.Defaults,
		paymentHold: deps.PaymentHold,
		log:         deps.Logger,
		now:         deps.Clock,
	}

	if s.pricing == nil {
		s.pricing = pricing.NewEngine()
	}
	if s.paymentHold <= 0 {
		s.paymentHold = defaultPaymentHold
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// loadStay loads and cross-checks the property and room of a stay request.
func (s *BookingService) loadStay(ctx context.Context, propertyID, roomID uuid.UUID) (*domain.Property, *domain.Room, error) {
	property, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}

	if err := property.Resolve(s.defaults); err != nil {
		return nil, nil, err
	}

	room, err := s.properties.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	if room.PropertyID != property.ID {
		return nil, nil, domain.ErrNotFound
	}

	room.BasePricePerNight = property.Price(room.BasePricePerNight.Amount)

	return property, room, nil
}

func (s *BookingService) Quote(ctx context.Context, propertyID, roomID uuid.UUID, rng domain.DateRange) (domain.StayQuote, error) {
	property, room, err := s.loadStay(ctx, propertyID, roomID)
	if err != nil {
		return domain.StayQuote{}, err
	}

	return s.pricing.QuoteStay(property, *room, rng)
}

func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	req = req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	propertyID := uuid.MustParse(req.PropertyID)
	roomID := uuid.MustParse(req.RoomID)
	method := req.PaymentMethod

	rng, err := domain.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	property, room, err := s.loadStay(ctx, propertyID, roomID)
	if err != nil {
		return nil, err
	}

	if rng.CheckIn.Before(localToday(s.now(), property.Location())) {
		return nil, domain.Invalid("check-in date is in the past")
	}

	initial, intents, err := status.InitialBooking(property.BookingMode, method)
	if err != nil {
		return nil, err
	}

	if !room.IsActive {
		return nil, domain.ErrRoomInactive
	}

	if req.NumGuests > room.Capacity {
		return nil, domain.ErrCapacityExceeded
	}

	if !property.AcceptsPayment(method) {
		return nil, domain.ErrPaymentMethodNotAccepted
	}

	quote, err := s.pricing.QuoteStay(property, *room, rng)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.FindBookingsForRoom(ctx, room.ID, rng)
	if err != nil {
		return nil, fmt.Errorf("load bookings for room: %w", err)
	}

	if err := availability.CheckRoom(room.ID, rng, existing); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:            uuid.New(),
		RoomID:        room.ID,
		PropertyID:    property.ID,
		StayCode:      newStayCode(),
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		Range:         rng,
		NumGuests:     req.NumGuests,
		Status:        initial,
		Quote:         quote,
		PaymentMethod: method,
		PaymentStatus: initialPaymentStatus(initial),
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// the repository repeats the conflict check under a room lock
	if err := s.bookings.InsertBooking(ctx, booking); err != nil {
		var conflict *domain.DateConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	s.invalidate(ctx, room.ID)

	s.log.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"property_id": booking.PropertyID,
		"room_id":     booking.RoomID,
		"status":      booking.Status,
		"nights":      quote.Nights,
		"total":       quote.Total.String(),
	}).Info("booking created")

	publishIntents(ctx, s.publisher, s.log, buildIntents(intents, "booking", booking.ID, booking.PropertyID, string(booking.Status), now))

	return booking, nil
}

func initialPaymentStatus(s domain.BookingStatus) domain.PaymentStatus {
	if s == domain.BookingPendingPayment {
		return domain.PaymentPending
	}

	return domain.PaymentUnpaid
}

func newStayCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// localToday is the property's current calendar day, expressed the way
// DateRange stores days.
func localToday(now time.Time, loc *time.Location) time.Time {
	y, m, d := availability.LocalNow(now, loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.bookings.GetBooking(ctx, bookingID)
}

// ApplyAction drives a booking through the Booking table. A concurrent
// change to the same booking surfaces as domain.ErrStaleVersion.
func (s *BookingService) ApplyAction(ctx context.Context, bookingID uuid.UUID, action, reason string) (*domain.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	to, err := status.Booking.Target(action)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, to, reason)
}

func (s *BookingService) transition(ctx context.Context, booking *domain.Booking, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	res, err := status.Booking.Transition(booking.Status, to, reason)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if err := s.bookings.UpdateBookingStatus(ctx, booking.ID, res.From, res.To, reason, booking.Version); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	booking.Status = res.To
	booking.StatusReason = reason
	booking.Version++
	booking.UpdatedAt = now

	if !res.To.HoldsRoom() {
		s.invalidate(ctx, booking.RoomID)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"from":       res.From,
		"to":         res.To,
	}).Info("booking status changed")

	publishIntents(ctx, s.publisher, s.log, buildIntents(res.Intents, "booking", booking.ID, booking.PropertyID, string(booking.Status), now))

	return booking, nil
}

// Calendar lists the ranges that currently hold roomID inside rng.
func (s *BookingService) Calendar(ctx context.Context, roomID uuid.UUID, rng domain.DateRange) ([]domain.DateRange, error) {
	if rng.Nights() > maxCalendarLookDays {
		return nil, domain.Invalid("calendar range must be at most %d days", maxCalendarLookDays)
	}

	if s.cache != nil {
		held, ok, err := s.cache.GetCalendar(ctx, roomID, rng)
		if err != nil {
			s.log.WithError(err).WithField("room_id", roomID).Warn("availability cache read failed")
		} else if ok {
			return held, nil
		}
	}

	bookings, err := s.bookings.FindBookingsForRoom(ctx, roomID, rng)
	if err != nil {
		return nil, fmt.Errorf("load bookings for room: %w", err)
	}

	held := make([]domain.DateRange, 0, len(bookings))
	for _, b := range bookings {
		if b.RoomID == roomID && b.Status.HoldsRoom() && availability.Overlaps(b.Range, rng) {
			held = append(held, b.Range)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetCalendar(ctx, roomID, rng, held); err != nil {
			s.log.WithError(err).WithField("room_id", roomID).Warn("availability cache write failed")
		}
	}

	return held, nil
}

func (s *BookingService) invalidate(ctx context.Context, roomID uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, roomID); err != nil {
		s.log.WithError(err).WithField("room_id", roomID).Warn("availability cache invalidation failed")
	}
}

// ExpireStalePayments cancels bookings that stayed in pending_payment past
// the payment hold, releasing their rooms. It returns how many were cancelled.
func (s *BookingService) ExpireStalePayments(ctx context.Context) (int, error) {
	ids, err := s.bookings.GetStalePendingPayment(ctx, s.now().Add(-s.paymentHold), expiryBatchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch stale bookings: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	s.log.Infof("Found %d bookings past their payment window. Cancelling...", len(ids))

	cancelled := 0
	for _, id := range ids {
		booking, err := s.bookings.GetBooking(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("booking_id", id).Warn("failed to load stale booking")
			continue
		}

		// paid since the query ran
		if booking.Status != domain.BookingPendingPayment {
			continue
		}

		if _, err := s.transition(ctx, booking, domain.BookingCancelled, expiredPaymentNote); err != nil {
			s.log.WithError(err).WithField("booking_id", id).Warn("failed to expire booking")
			continue
		}
		cancelled++
	}

	return cancelled, nil
}
