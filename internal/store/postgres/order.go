package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront/internal/models"
	"storefront/internal/store"
)

const orderColumns = "order_id, user_id, address_id, status, total_amount, created_at, updated_at"

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, address_id, status, total_amount)
		 VALUES ($1, $2, $3, $4) RETURNING order_id, created_at, updated_at`,
		o.UserID, o.AddressID, o.Status, o.TotalAmount).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	stmt := `INSERT INTO order_item (order_id, product_id, variant_id, quantity, price_at_purchase)
	         VALUES ($1, $2, $3, $4, $5) RETURNING order_item_id`
	for i := range items {
		items[i].OrderID = orderID
		err := s.q.QueryRowContext(ctx, stmt, orderID, items[i].ProductID, items[i].VariantID,
			items[i].Quantity, items[i].PriceAtPurchase).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (s *Store) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE order_id = $1", id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

func (s *Store) OrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.variant_id, oi.quantity,
		        oi.price_at_purchase, p.name
		 FROM order_item oi
		 JOIN product p ON oi.product_id = p.product_id
		 WHERE oi.order_id = $1
		 ORDER BY oi.order_item_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var out []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID,
			&it.Quantity, &it.PriceAtPurchase, &it.ProductName); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) Orders(ctx context.Context, f store.OrderFilter) ([]models.Order, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	idx := 1

	if f.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, *f.UserID)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, idx, idx+1)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE order_id = $2", status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireRow(res, models.ErrOrderNotFound)
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM orders WHERE order_id = $1", id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return models.ValidationError("order is referenced by other records")
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return requireRow(res, models.ErrOrderNotFound)
}
