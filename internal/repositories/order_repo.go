package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderSearchLimit caps the rows returned by an order search.
const OrderSearchLimit = 1000

var newestFirst = []query.Order{{Property: "orderDate", Direction: query.Desc}}

var orderSortable = query.Sortable{
	"id":         "o.order_id",
	"orderDate":  "o.order_date",
	"status":     "o.status",
	"memberName": "m.username",
}

type OrderRepository struct {
	db     *database.DB
	pool   *pgxpool.Pool
	search orderSummaryExecutor
}

func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{
		db:     db,
		pool:   db.Pool,
		search: orderSummaryExecutor{pool: db.Pool},
	}
}

const orderColumns = "order_id, member_id, status, order_date, " + auditColumns

func scanOrderRow(scanner rowScanner) (*models.Order, error) {
	var order models.Order

	dest := append([]interface{}{&order.ID, &order.MemberID, &order.Status, &order.OrderDate}, auditDest(&order.Audit)...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &order, nil
}

const insertOrderSQL = `
	INSERT INTO orders (member_id, status, order_date, created_at, updated_at, created_by, last_modified_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + orderColumns

// Create places order and takes each line's count out of item stock in one
// transaction. The price of each line is the item's current price. A line
// asking for more than the item holds yields models.ErrNotEnoughStock and
// nothing is written; an unknown member or item maps to models.ErrBadRequest.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	stampWrite(ctx, &order.Audit)
	if order.OrderDate.IsZero() {
		order.OrderDate = order.CreatedAt
	}

	var placed *models.Order
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		placed, err = scanOrderRow(tx.QueryRow(ctx, insertOrderSQL,
			order.MemberID, string(order.Status), order.OrderDate,
			order.CreatedAt, order.UpdatedAt, order.CreatedBy, order.LastModifiedBy,
		))
		if err != nil {
			return err
		}

		placed.Items = make([]models.OrderItem, 0, len(order.Items))
		for _, line := range order.Items {
			if line.Count <= 0 {
				return models.ErrBadRequest
			}
			price, err := takeStock(ctx, tx, line.ItemID, line.Count, order.Audit)
			if err != nil {
				return err
			}

			saved := models.OrderItem{OrderID: placed.ID, ItemID: line.ItemID, OrderPrice: price, Count: line.Count}
			err = tx.QueryRow(ctx, `
				INSERT INTO order_item (order_id, item_id, order_price, count)
				VALUES ($1, $2, $3, $4)
				RETURNING order_item_id`,
				saved.OrderID, saved.ItemID, saved.OrderPrice, saved.Count,
			).Scan(&saved.ID)
			if err != nil {
				return database.MapPostgresError(err)
			}
			placed.Items = append(placed.Items, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// takeStock removes count units of itemID and returns the item's price.
func takeStock(ctx context.Context, tx pgx.Tx, itemID int64, count int, stamp models.Audit) (int, error) {
	var price int
	err := tx.QueryRow(ctx, `
		UPDATE item SET stock_quantity = stock_quantity - $1, updated_at = $2, last_modified_by = $3
		WHERE item_id = $4 AND stock_quantity >= $1
		RETURNING price`,
		count, stamp.UpdatedAt, stamp.LastModifiedBy, itemID,
	).Scan(&price)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, database.MapPostgresError(err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM item WHERE item_id = $1)`, itemID).Scan(&exists); err != nil {
		return 0, database.MapPostgresError(err)
	}
	if !exists {
		return 0, models.ErrBadRequest
	}
	return 0, models.ErrNotEnoughStock
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	order, err := scanOrderRow(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, err
	}

	order.Items, err = loadOrderItems(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel moves an order to CANCEL under a row lock and puts every line's
// count back into item stock in the same transaction. Cancelling an order
// that is already cancelled yields models.ErrOrderAlreadyCancelled.
func (r *OrderRepository) Cancel(ctx context.Context, id int64) (*models.Order, error) {
	now := time.Now().UTC()
	principal := auth.PrincipalFromContext(ctx)

	var cancelled *models.Order
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var current models.OrderStatus
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE order_id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if current == models.OrderStatusCancel {
			return models.ErrOrderAlreadyCancelled
		}

		_, err = tx.Exec(ctx, `
			UPDATE item i SET stock_quantity = i.stock_quantity + l.total, updated_at = $2, last_modified_by = $3
			FROM (SELECT item_id, SUM(count) AS total FROM order_item WHERE order_id = $1 GROUP BY item_id) l
			WHERE i.item_id = l.item_id`,
			id, now, principal,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}

		sql := `
			UPDATE orders SET status = $1, updated_at = $2, last_modified_by = $3
			WHERE order_id = $4
			RETURNING ` + orderColumns

		cancelled, err = scanOrderRow(tx.QueryRow(ctx, sql, string(models.OrderStatusCancel), now, principal, id))
		if err != nil {
			return err
		}
		cancelled.Items, err = loadOrderItems(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func loadOrderItems(ctx context.Context, q querier, orderID int64) ([]models.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT order_item_id, order_id, item_id, order_price, count
		FROM order_item WHERE order_id = $1 ORDER BY order_item_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var line models.OrderItem
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.OrderPrice, &line.Count); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", err)
	}
	return items, nil
}

// Search lists orders matching search, newest first, capped at
// OrderSearchLimit rows.
func (r *OrderRepository) Search(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error) {
	return r.search.Fetch(ctx, query.Query{
		Where: query.BuildOrderPredicate(search),
		Sort:  newestFirst,
		Limit: OrderSearchLimit,
	})
}

// SearchPage returns one page of orders matching search, newest first unless
// req sorts otherwise. The count query is skipped when the page alone
// determines the total.
func (r *OrderRepository) SearchPage(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error) {
	if err := orderSortable.Check(req.Sort); err != nil {
		return nil, err
	}
	if len(req.Sort) == 0 {
		req.Sort = newestFirst
	}
	return query.Paginate[models.OrderSummary](ctx, query.BuildOrderPredicate(search), req, r.search, true)
}

func buildOrderSummarySQL(q query.Query) (string, []any, error) {
	orderBy, err := orderSortable.OrderBy(q.Sort, "o.order_id")
	if err != nil {
		return "", nil, err
	}

	args := &query.Args{}
	sql := "SELECT o.order_id, o.member_id, m.username, o.status, o.order_date" +
		" FROM orders o JOIN member m ON m.member_id = o.member_id" +
		query.Where(q.Where, args) +
		" ORDER BY " + orderBy
	if q.Limit > 0 {
		sql += " LIMIT " + args.Add(q.Limit)
	}
	if q.Offset > 0 {
		sql += " OFFSET " + args.Add(q.Offset)
	}
	return sql, args.Values(), nil
}

// orderSummaryExecutor runs order searches against Postgres.
type orderSummaryExecutor struct {
	pool *pgxpool.Pool
}

func (e orderSummaryExecutor) Fetch(ctx context.Context, q query.Query) ([]models.OrderSummary, error) {
	sql, args, err := buildOrderSummarySQL(q)
	if err != nil {
		return nil, err
	}

	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return scanOrderSummaryRows(rows)
}

func (e orderSummaryExecutor) Count(ctx context.Context, where *query.Predicate) (int64, error) {
	args := &query.Args{}
	sql := "SELECT COUNT(*) FROM orders o"
	if where.Requires(query.JoinMember) {
		sql += " JOIN member m ON m.member_id = o.member_id"
	}
	sql += query.Where(where, args)

	var total int64
	if err := e.pool.QueryRow(ctx, sql, args.Values()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

func scanOrderSummaryRows(rows pgx.Rows) ([]models.OrderSummary, error) {
	defer rows.Close()

	out := make([]models.OrderSummary, 0)

	for rows.Next() {
		var o models.OrderSummary
		if err := rows.Scan(&o.OrderID, &o.MemberID, &o.MemberName, &o.Status, &o.OrderDate); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return out, nil
}
