package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/stay_engine/internal/core/availability"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

const (
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, room_id, property_id, stay_code, guest_name, guest_email, check_in, check_out,
	num_guests, status, currency, nights, nightly_rate, base_amount, discount, cleaning_fee,
	total_amount, deposit, payment_method, payment_status, status_reason, version,
	created_at, updated_at`

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var checkIn, checkOut time.Time
	var currency string
	q := &b.Quote

	err := row.Scan(
		&b.ID,
		&b.RoomID,
		&b.PropertyID,
		&b.StayCode,
		&b.GuestName,
		&b.GuestEmail,
		&checkIn,
		&checkOut,
		&b.NumGuests,
		&b.Status,
		&currency,
		&q.Nights,
		&q.NightlyRate.Amount,
		&q.Base.Amount,
		&q.Discount.Amount,
		&q.CleaningFee.Amount,
		&q.Total.Amount,
		&q.Deposit.Amount,
		&b.PaymentMethod,
		&b.PaymentStatus,
		&b.StatusReason,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Range, err = domain.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("booking %s has a corrupt date range: %w", b.ID, err)
	}

	for _, m := range []*domain.Money{&q.NightlyRate, &q.Base, &q.Discount, &q.CleaningFee, &q.Total, &q.Deposit} {
		m.Currency = currency
	}

	return &b, nil
}

func holdingStatuses() pq.StringArray {
	out := make(pq.StringArray, len(domain.HoldingStatuses))
	for i, s := range domain.HoldingStatuses {
		out[i] = string(s)
	}

	return out
}

func findBookingsForRoom(ctx context.Context, q queryer, roomID uuid.UUID, rng domain.DateRange) ([]domain.Booking, error) {
	query := `SELECT` + bookingColumns + `
	FROM bookings
	WHERE room_id = $1 AND check_in < $3 AND check_out > $2 AND status = ANY($4)
	ORDER BY check_in
	`

	rows, err := q.QueryContext(ctx, query, roomID,
		rng.CheckIn.Format(domain.DateLayout), rng.CheckOut.Format(domain.DateLayout), holdingStatuses())
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

// FindBookingsForRoom returns the bookings that hold roomID somewhere inside rng.
func (r *BookingRepository) FindBookingsForRoom(ctx context.Context, roomID uuid.UUID, rng domain.DateRange) ([]domain.Booking, error) {
	return findBookingsForRoom(ctx, r.db, roomID, rng)
}

// InsertBooking locks the room row, re-checks the calendar and inserts in a
// single serializable transaction. The exclusion constraint on bookings is
// the last line: a violation is reported as a date conflict. A serialization
// failure is retried once.
func (r *BookingRepository) InsertBooking(ctx context.Context, booking *domain.Booking) error {
	err := r.insertBooking(ctx, booking)
	if isPQCode(err, pqSerializationFailure) {
		err = r.insertBooking(ctx, booking)
	}

	if isPQCode(err, pqExclusionViolation) {
		return &domain.DateConflictError{RoomID: booking.RoomID, Range: booking.Range}
	}

	return err
}

func (r *BookingRepository) insertBooking(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}

	defer tx.Rollback()

	var locked uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, booking.RoomID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to lock room %s: %w", booking.RoomID, err)
	}

	existing, err := findBookingsForRoom(ctx, tx, booking.RoomID, booking.Range)
	if err != nil {
		return fmt.Errorf("failed to re-check room calendar: %w", err)
	}

	if err := availability.CheckRoom(booking.RoomID, booking.Range, existing); err != nil {
		return err
	}

	query := `
	INSERT INTO bookings (` + bookingColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	q := booking.Quote
	_, err = tx.ExecContext(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.PropertyID,
		booking.StayCode,
		booking.GuestName,
		booking.GuestEmail,
		booking.Range.CheckIn.Format(domain.DateLayout),
		booking.Range.CheckOut.Format(domain.DateLayout),
		booking.NumGuests,
		booking.Status,
		q.Total.Currency,
		q.Nights,
		q.NightlyRate.Amount,
		q.Base.Amount,
		q.Discount.Amount,
		q.CleaningFee.Amount,
		q.Total.Amount,
		q.Deposit.Amount,
		booking.PaymentMethod,
		booking.PaymentStatus,
		booking.StatusReason,
		booking.Version,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return b, nil
}

func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, reason string, version int) error {
	query := `
	UPDATE bookings
	SET status = $1,
		status_reason = $2,
		version = version + 1,
		updated_at = $3
	WHERE id = $4 AND status = $5 AND version = $6
	`

	result, err := r.db.ExecContext(ctx, query, to, reason, time.Now().UTC(), bookingID, from, version)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrStaleVersion
	}

	return nil
}

func (r *BookingRepository) GetStalePendingPayment(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT id FROM bookings
	WHERE status = $1 AND created_at < $2
	ORDER BY created_at
	LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, domain.BookingPendingPayment, createdBefore, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
