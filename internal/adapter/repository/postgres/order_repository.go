package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type ServiceOrderRepository struct {
	db *sql.DB
}

func NewServiceOrderRepository(db *sql.DB) *ServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

// InsertOrder writes the header and its lines in one transaction. Any line
// failure rolls back the header too. The ordered items are share-locked and
// must still be in stock, so an owner flipping the flag concurrently either
// waits for this order or makes it fail with domain.ErrOutOfStock.
func (r *ServiceOrderRepository) InsertOrder(ctx context.Context, order *domain.ServiceOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if err := lockInStock(ctx, tx, order); err != nil {
		return err
	}

	queryHeader := `
	INSERT INTO service_orders (id, booking_id, property_id, status, currency, subtotal, tax, total_amount,
		is_minibar_consumption, owner_confirmed, requested_time, delivery_notes, status_reason, version,
		created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = tx.ExecContext(ctx, queryHeader,
		order.ID,
		order.BookingID,
		order.PropertyID,
		order.Status,
		order.Total.Currency,
		order.Subtotal.Amount,
		order.Tax.Amount,
		order.Total.Amount,
		order.IsMinibarConsumption,
		nullBool(order.OwnerConfirmed),
		nullTime(order.RequestedTime),
		order.DeliveryNotes,
		order.StatusReason,
		order.Version,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order header: %w", err)
	}

	queryLine := `
	INSERT INTO service_order_lines (id, order_id, position, service_item_id, name, quantity, unit_price,
		line_total, category_tag, automation_level, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	stmt, err := tx.PrepareContext(ctx, queryLine)
	if err != nil {
		return fmt.Errorf("failed to prepare line statement: %w", err)
	}

	defer stmt.Close()

	for i, line := range order.Lines {
		_, err := stmt.ExecContext(ctx,
			line.ID,
			line.OrderID,
			i,
			line.ServiceItemID,
			line.Name,
			line.Quantity,
			line.UnitPrice.Amount,
			line.LineTotal.Amount,
			line.CategoryTag,
			line.Automation,
			line.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line for item %s: %w", line.ServiceItemID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func lockInStock(ctx context.Context, tx *sql.Tx, order *domain.ServiceOrder) error {
	ids := make(pq.StringArray, 0, len(order.Lines))
	seen := make(map[uuid.UUID]struct{}, len(order.Lines))
	for _, l := range order.Lines {
		if _, ok := seen[l.ServiceItemID]; ok {
			continue
		}
		seen[l.ServiceItemID] = struct{}{}
		ids = append(ids, l.ServiceItemID.String())
	}

	query := `
	SELECT id
	FROM service_items
	WHERE id = ANY($1::uuid[]) AND property_id = $2 AND in_stock
	FOR SHARE
	`

	rows, err := tx.QueryContext(ctx, query, ids, order.PropertyID)
	if err != nil {
		return fmt.Errorf("failed to lock service items: %w", err)
	}
	defer rows.Close()

	available := make(map[uuid.UUID]struct{}, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		available[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range order.Lines {
		if _, ok := available[l.ServiceItemID]; !ok {
			return domain.OutOfStock(l.ServiceItemID, l.Name)
		}
	}

	return nil
}

func (r *ServiceOrderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.ServiceOrder, error) {
	queryHeader := `
	SELECT id, booking_id, property_id, status, currency, subtotal, tax, total_amount,
		is_minibar_consumption, owner_confirmed, requested_time, delivery_notes, status_reason, version,
		created_at, updated_at
	FROM service_orders
	WHERE id = $1
	`

	var o domain.ServiceOrder
	var currency string
	var ownerConfirmed sql.NullBool
	var requestedTime sql.NullTime

	err := r.db.QueryRowContext(ctx, queryHeader, orderID).Scan(
		&o.ID,
		&o.BookingID,
		&o.PropertyID,
		&o.Status,
		&currency,
		&o.Subtotal.Amount,
		&o.Tax.Amount,
		&o.Total.Amount,
		&o.IsMinibarConsumption,
		&ownerConfirmed,
		&requestedTime,
		&o.DeliveryNotes,
		&o.StatusReason,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	o.Subtotal.Currency = currency
	o.Tax.Currency = currency
	o.Total.Currency = currency

	if ownerConfirmed.Valid {
		o.OwnerConfirmed = &ownerConfirmed.Bool
	}
	if requestedTime.Valid {
		t := requestedTime.Time.UTC()
		o.RequestedTime = &t
	}

	queryLines := `
	SELECT id, order_id, service_item_id, name, quantity, unit_price, line_total, category_tag,
		automation_level, notes
	FROM service_order_lines
	WHERE order_id = $1
	ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, queryLines, orderID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var l domain.ServiceOrderLine
		if err := rows.Scan(
			&l.ID,
			&l.OrderID,
			&l.ServiceItemID,
			&l.Name,
			&l.Quantity,
			&l.UnitPrice.Amount,
			&l.LineTotal.Amount,
			&l.CategoryTag,
			&l.Automation,
			&l.Notes,
		); err != nil {
			return nil, err
		}

		l.UnitPrice.Currency = currency
		l.LineTotal.Currency = currency
		o.Lines = append(o.Lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *ServiceOrderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.ServiceOrderStatus, reason string, ownerConfirmed *bool, version int) error {
	query := `
	UPDATE service_orders
	SET status = $1,
		status_reason = $2,
		owner_confirmed = $3,
		version = version + 1,
		updated_at = $4
	WHERE id = $5 AND status = $6 AND version = $7
	`

	result, err := r.db.ExecContext(ctx, query, to, reason, nullBool(ownerConfirmed), time.Now().UTC(), orderID, from, version)
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

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}

	return sql.NullBool{Bool: *b, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
