package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

func (s *Store) CartByUser(ctx context.Context, userID int64) (*models.Cart, error) {
	var c models.Cart
	err := s.q.QueryRowContext(ctx,
		"SELECT cart_id, user_id, created_at FROM cart WHERE user_id = $1", userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = s.q.QueryRowContext(ctx,
			"INSERT INTO cart (user_id) VALUES ($1) RETURNING cart_id, user_id, created_at", userID).
			Scan(&c.ID, &c.UserID, &c.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return &c, nil
}

// cartLineQuery joins product and variant so every line carries its
// resolved unit price and the stock that is authoritative for its SKU.
const cartLineQuery = `
SELECT ci.cart_item_id, ci.cart_id, ci.product_id, ci.variant_id, ci.quantity, ci.added_at,
       p.name, COALESCE(pv.variant_name, ''),
       p.base_price, COALESCE(pv.price_modifier, 0),
       COALESCE(pv.stock_quantity, p.stock_quantity)
FROM cart_item ci
JOIN cart c ON ci.cart_id = c.cart_id
JOIN product p ON ci.product_id = p.product_id
LEFT JOIN product_variant pv ON ci.variant_id = pv.variant_id`

func scanCartLine(row interface{ Scan(...any) error }) (*models.CartLine, error) {
	var (
		l        models.CartLine
		base     decimal.Decimal
		modifier decimal.Decimal
	)
	err := row.Scan(&l.ID, &l.CartID, &l.ProductID, &l.VariantID, &l.Quantity, &l.AddedAt,
		&l.ProductName, &l.VariantName, &base, &modifier, &l.Stock)
	if err != nil {
		return nil, err
	}
	l.UnitPrice = base.Add(modifier)
	l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return &l, nil
}

func (s *Store) CartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	rows, err := s.q.QueryContext(ctx, cartLineQuery+" WHERE ci.cart_id = $1 ORDER BY ci.added_at DESC", cartID)
	if err != nil {
		return nil, fmt.Errorf("select cart lines: %w", err)
	}
	defer rows.Close()

	var out []models.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (s *Store) CartLineForUser(ctx context.Context, lineID, userID int64) (*models.CartLine, error) {
	row := s.q.QueryRowContext(ctx, cartLineQuery+" WHERE ci.cart_item_id = $1 AND c.user_id = $2", lineID, userID)
	l, err := scanCartLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select cart line: %w", err)
	}
	return l, nil
}

func (s *Store) FindCartLine(ctx context.Context, cartID, productID int64, variantID *int64) (*models.CartLine, error) {
	row := s.q.QueryRowContext(ctx,
		cartLineQuery+` WHERE ci.cart_id = $1 AND ci.product_id = $2
		 AND (ci.variant_id = $3 OR (ci.variant_id IS NULL AND $3::bigint IS NULL))`,
		cartID, productID, variantID)
	l, err := scanCartLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart line: %w", err)
	}
	return l, nil
}

func (s *Store) CreateCartLine(ctx context.Context, l *models.CartLine) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO cart_item (cart_id, product_id, variant_id, quantity)
		 VALUES ($1, $2, $3, $4) RETURNING cart_item_id, added_at`,
		l.CartID, l.ProductID, l.VariantID, l.Quantity).Scan(&l.ID, &l.AddedAt)
	if err != nil {
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

func (s *Store) UpdateCartLineQuantity(ctx context.Context, lineID int64, quantity int) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE cart_item SET quantity = $1 WHERE cart_item_id = $2", quantity, lineID)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	return requireRow(res, models.ErrCartItemNotFound)
}

func (s *Store) DeleteCartLine(ctx context.Context, lineID int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM cart_item WHERE cart_item_id = $1", lineID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return requireRow(res, models.ErrCartItemNotFound)
}

func (s *Store) ClearCart(ctx context.Context, cartID int64) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM cart_item WHERE cart_id = $1", cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
