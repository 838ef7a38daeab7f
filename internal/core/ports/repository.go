package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type PropertyRepository interface {
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error)
}

type BookingRepository interface {
	FindBookingsForRoom(ctx context.Context, roomID uuid.UUID, rng domain.DateRange) ([]domain.Booking, error)
	// InsertBooking must re-check conflicts and insert in one transaction
	// that serializes against concurrent inserts for the same room. A lost
	// race is reported as *domain.DateConflictError.
	InsertBooking(ctx context.Context, booking *domain.Booking) error
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	// UpdateBookingStatus fails with domain.ErrStaleVersion when the stored
	// row no longer has the given status and version.
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, reason string, version int) error
	GetStalePendingPayment(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}

type ServiceItemRepository interface {
	// FindServiceItems returns only items owned by propertyID.
	FindServiceItems(ctx context.Context, itemIDs []uuid.UUID, propertyID uuid.UUID) ([]domain.ServiceItem, error)
}

type ServiceOrderRepository interface {
	// InsertOrder writes the header and every line atomically.
	InsertOrder(ctx context.Context, order *domain.ServiceOrder) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.ServiceOrder, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.ServiceOrderStatus, reason string, ownerConfirmed *bool, version int) error
}
