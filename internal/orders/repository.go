package orders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/devops-orders/orders-service/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its items in one transaction. The generated
// ids are written back into the order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, status, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`, order.CustomerID, order.Status, order.TotalPrice, order.CreatedAt).Scan(&order.ID)
	if err != nil {
		return err
	}
	order.UpdatedAt = order.CreatedAt

	if err := insertItems(ctx, tx, order); err != nil {
		return err
	}

	return tx.Commit()
}

func insertItems(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO items (order_id, name, category, description, product_id, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, order.ID, item.Name, item.Category, item.Description, item.ProductID, item.Price, item.Quantity).Scan(&item.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns nil when no such order exists.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{Items: []domain.Item{}}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, status, total_price, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerID, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, description, product_id, price, quantity, order_id
		FROM items
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Description,
			&item.ProductID, &item.Price, &item.Quantity, &item.OrderID); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// Update re-persists the order row. When replaceItems is set the stored item
// collection is replaced by order.Items inside the same transaction.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order, replaceItems bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $1, status = $2, total_price = $3, updated_at = $4
		WHERE id = $5
	`, order.CustomerID, order.Status, order.TotalPrice, order.UpdatedAt, order.ID)
	if err != nil {
		return err
	}

	if replaceItems {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE order_id = $1`, order.ID); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, order); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateStatus persists a bare status change. Returns false when the order
// does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// Delete removes the order and its items. The items go first, in the same
// transaction, so the cascade is owned by the application rather than the
// schema. Deleting a missing order is a no-op.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE order_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// List returns the orders matching the filter, oldest first, each with its
// items attached. Items are fetched in one batched query rather than per
// order.
func (r *OrderRepository) List(ctx context.Context, filter ListFilter) ([]domain.Order, error) {
	query := `
		SELECT id, customer_id, status, total_price, created_at, updated_at
		FROM orders
	`
	var conds []string
	var args []any

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.MinTotal != nil {
		args = append(args, *filter.MinTotal)
		conds = append(conds, fmt.Sprintf("total_price >= $%d", len(args)))
	}
	if filter.MaxTotal != nil {
		args = append(args, *filter.MaxTotal)
		conds = append(conds, fmt.Sprintf("total_price <= $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[int64]*domain.Order)
	var orderIDs []int64

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.Status,
			&order.TotalPrice, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		order.Items = []domain.Item{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, description, product_id, price, quantity, order_id
		FROM items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var item domain.Item
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Category, &item.Description,
			&item.ProductID, &item.Price, &item.Quantity, &item.OrderID); err != nil {
			return nil, err
		}
		order := orderMap[item.OrderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}
