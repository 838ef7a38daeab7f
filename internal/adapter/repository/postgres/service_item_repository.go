package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type ServiceItemRepository struct {
	db *sql.DB
}

func NewServiceItemRepository(db *sql.DB) *ServiceItemRepository {
	return &ServiceItemRepository{db: db}
}

// FindServiceItems loads the catalog rows for itemIDs, scoped to propertyID
// in SQL so items of another property never leave the database.
func (r *ServiceItemRepository) FindServiceItems(ctx context.Context, itemIDs []uuid.UUID, propertyID uuid.UUID) ([]domain.ServiceItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	ids := make(pq.StringArray, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}

	query := `
	SELECT i.id, i.property_id, i.category_id, c.tag, c.automation_level, i.name, i.price,
		i.in_stock, i.is_always_available, i.available_from, i.available_until
	FROM service_items i
	JOIN service_categories c ON c.id = i.category_id
	WHERE i.id = ANY($1::uuid[]) AND i.property_id = $2
	`

	rows, err := r.db.QueryContext(ctx, query, ids, propertyID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var items []domain.ServiceItem
	for rows.Next() {
		var it domain.ServiceItem
		var from, until sql.NullString

		if err := rows.Scan(
			&it.ID,
			&it.PropertyID,
			&it.CategoryID,
			&it.CategoryTag,
			&it.Automation,
			&it.Name,
			&it.Price.Amount,
			&it.InStock,
			&it.IsAlwaysAvailable,
			&from,
			&until,
		); err != nil {
			return nil, err
		}

		it.AvailableFrom = from.String
		it.AvailableUntil = until.String

		items = append(items, it)
	}

	return items, rows.Err()
}
