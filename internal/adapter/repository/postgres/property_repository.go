package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	query := `
	SELECT id, owner_id, name, timezone, currency, booking_mode, min_nights, max_nights,
		cleaning_fee, weekly_discount_percent, monthly_discount_percent, deposit_percent,
		accepted_payment_methods
	FROM properties
	WHERE id = $1
	`

	var p domain.Property
	var timezone, currency sql.NullString

	err := r.db.QueryRowContext(ctx, query, propertyID).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&timezone,
		&currency,
		&p.BookingMode,
		&p.MinNights,
		&p.MaxNights,
		&p.CleaningFee,
		&p.WeeklyDiscountPercent,
		&p.MonthlyDiscountPercent,
		&p.DepositPercent,
		pq.Array(&p.AcceptedPaymentMethods),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	p.Timezone = timezone.String
	p.Currency = currency.String

	return &p, nil
}

func (r *PropertyRepository) GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	query := `
	SELECT id, property_id, name, base_price_per_night, capacity, is_active
	FROM rooms
	WHERE id = $1
	`

	var room domain.Room

	err := r.db.QueryRowContext(ctx, query, roomID).Scan(
		&room.ID,
		&room.PropertyID,
		&room.Name,
		&room.BasePricePerNight.Amount,
		&room.Capacity,
		&room.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &room, nil
}
