package items

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/devops-orders/orders-service/internal/domain"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// OrderExists reports whether the parent order is present.
func (r *ItemRepository) OrderExists(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)
	`, orderID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts the item and re-derives the parent order's total in the
// same transaction, mirroring what an order update would compute.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO items (order_id, name, category, description, product_id, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, item.OrderID, item.Name, item.Category, item.Description, item.ProductID, item.Price, item.Quantity).Scan(&item.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET total_price = (
			SELECT COALESCE(SUM(price * quantity), 0) FROM items WHERE order_id = $1
		), updated_at = NOW()
		WHERE id = $1
	`, item.OrderID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID returns nil when the item does not exist or belongs to a
// different order.
func (r *ItemRepository) GetByID(ctx context.Context, orderID, itemID int64) (*domain.Item, error) {
	item := &domain.Item{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, description, product_id, price, quantity, order_id
		FROM items
		WHERE id = $1 AND order_id = $2
	`, itemID, orderID).Scan(&item.ID, &item.Name, &item.Category, &item.Description,
		&item.ProductID, &item.Price, &item.Quantity, &item.OrderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return item, nil
}

// Update re-persists every mutable field. The parent order's total is
// deliberately not recomputed here; that only happens through an order
// update.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name = $1, category = $2, description = $3, product_id = $4, price = $5, quantity = $6
		WHERE id = $7 AND order_id = $8
	`, item.Name, item.Category, item.Description, item.ProductID, item.Price, item.Quantity,
		item.ID, item.OrderID)
	return err
}

// Delete removes the item. Deleting a missing item is a no-op, and the
// parent order's total is left as is.
func (r *ItemRepository) Delete(ctx context.Context, orderID, itemID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM items WHERE id = $1 AND order_id = $2
	`, itemID, orderID)
	return err
}

// List returns the order's items matching the filter, oldest first.
func (r *ItemRepository) List(ctx context.Context, orderID int64, filter ListFilter) ([]domain.Item, error) {
	query := `
		SELECT id, name, category, description, product_id, price, quantity, order_id
		FROM items
	`
	conds := []string{"order_id = $1"}
	args := []any{orderID}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		conds = append(conds, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}
	if filter.Name != nil {
		args = append(args, *filter.Name)
		conds = append(conds, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Description != nil {
		args = append(args, *filter.Description)
		conds = append(conds, fmt.Sprintf("description ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.Quantity != nil {
		args = append(args, *filter.Quantity)
		conds = append(conds, fmt.Sprintf("quantity = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	query += " WHERE " + strings.Join(conds, " AND ") + " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Description,
			&item.ProductID, &item.Price, &item.Quantity, &item.OrderID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
