package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{pool: db.Pool}
}

const itemColumns = "item_id, name, price, stock_quantity, " + auditColumns

func scanItemRow(scanner rowScanner) (*models.Item, error) {
	var item models.Item

	dest := append([]interface{}{&item.ID, &item.Name, &item.Price, &item.StockQuantity}, auditDest(&item.Audit)...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &item, nil
}

func scanItemRows(rows pgx.Rows) ([]*models.Item, error) {
	defer rows.Close()

	items := make([]*models.Item, 0)

	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// Create inserts item. A negative price or stock maps to models.ErrBadRequest.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	stampWrite(ctx, &item.Audit)

	query := `
		INSERT INTO item (name, price, stock_quantity, created_at, updated_at, created_by, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + itemColumns

	return scanItemRow(r.pool.QueryRow(ctx, query,
		item.Name, item.Price, item.StockQuantity,
		item.CreatedAt, item.UpdatedAt, item.CreatedBy, item.LastModifiedBy,
	))
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item WHERE item_id = $1`

	return scanItemRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item ORDER BY item_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	return scanItemRows(rows)
}
