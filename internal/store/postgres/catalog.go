package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT category_id, name, description, created_at FROM category ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := s.q.QueryRowContext(ctx,
		"SELECT category_id, name, description, created_at FROM category WHERE category_id = $1", id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select category: %w", err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	err := s.q.QueryRowContext(ctx,
		"INSERT INTO category (name, description) VALUES ($1, $2) RETURNING category_id, created_at",
		c.Name, c.Description).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE category SET name = $1, description = $2 WHERE category_id = $3",
		c.Name, c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, models.ErrCategoryNotFound)
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM category WHERE category_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, models.ErrCategoryNotFound)
}

const productColumns = "product_id, category_id, name, description, artisan_name, base_price, stock_quantity, image_url, created_at, updated_at"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.ArtisanName,
		&p.BasePrice, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Products(ctx context.Context, f store.ProductFilter) ([]models.Product, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	idx := 1

	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	if f.CategoryID != nil {
		where += fmt.Sprintf(" AND category_id = $%d", idx)
		args = append(args, *f.CategoryID)
		idx++
	}

	var total int
	if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM product"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM product%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		productColumns, where, idx, idx+1)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (s *Store) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM product WHERE product_id = $1", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}

	variants, err := s.variantsByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Variants = variants
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO product (category_id, name, description, artisan_name, base_price, stock_quantity, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING product_id, created_at, updated_at`,
		p.CategoryID, p.Name, p.Description, p.ArtisanName, p.BasePrice, p.Stock, p.ImageURL).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE product SET category_id = $1, name = $2, description = $3, artisan_name = $4,
		        base_price = $5, stock_quantity = $6, image_url = $7, updated_at = NOW()
		 WHERE product_id = $8`,
		p.CategoryID, p.Name, p.Description, p.ArtisanName, p.BasePrice, p.Stock, p.ImageURL, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res, models.ErrProductNotFound)
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM product WHERE product_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res, models.ErrProductNotFound)
}

const variantColumns = "variant_id, product_id, variant_name, sku, price_modifier, stock_quantity"

func (s *Store) variantsByProduct(ctx context.Context, productID int64) ([]models.Variant, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+variantColumns+" FROM product_variant WHERE product_id = $1 ORDER BY variant_id", productID)
	if err != nil {
		return nil, fmt.Errorf("select variants: %w", err)
	}
	defer rows.Close()

	var out []models.Variant
	for rows.Next() {
		var v models.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.PriceModifier, &v.Stock); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) VariantByID(ctx context.Context, id int64) (*models.Variant, error) {
	var v models.Variant
	err := s.q.QueryRowContext(ctx,
		"SELECT "+variantColumns+" FROM product_variant WHERE variant_id = $1", id).
		Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.PriceModifier, &v.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select variant: %w", err)
	}
	return &v, nil
}

func (s *Store) CreateVariant(ctx context.Context, v *models.Variant) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO product_variant (product_id, variant_name, sku, price_modifier, stock_quantity)
		 VALUES ($1, $2, $3, $4, $5) RETURNING variant_id`,
		v.ProductID, v.Name, v.SKU, v.PriceModifier, v.Stock).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (s *Store) UpdateVariant(ctx context.Context, v *models.Variant) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE product_variant SET variant_name = $1, sku = $2, price_modifier = $3, stock_quantity = $4
		 WHERE variant_id = $5`,
		v.Name, v.SKU, v.PriceModifier, v.Stock, v.ID)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	return requireRow(res, models.ErrVariantNotFound)
}

func (s *Store) DeleteVariant(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM product_variant WHERE variant_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	return requireRow(res, models.ErrVariantNotFound)
}

// AvailableStock reads the stock counter for a SKU. Inside a transaction
// the row is locked so concurrent checkouts serialize on it.
func (s *Store) AvailableStock(ctx context.Context, productID int64, variantID *int64) (int, error) {
	if variantID != nil {
		query := "SELECT stock_quantity FROM product_variant WHERE variant_id = $1 AND product_id = $2"
		if s.inTx {
			query += " FOR UPDATE"
		}
		var stock int
		err := s.q.QueryRowContext(ctx, query, *variantID, productID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrVariantNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("select variant stock: %w", err)
		}
		return stock, nil
	}

	query := "SELECT stock_quantity FROM product WHERE product_id = $1"
	if s.inTx {
		query += " FOR UPDATE"
	}
	var stock int
	err := s.q.QueryRowContext(ctx, query, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("select product stock: %w", err)
	}
	return stock, nil
}

// ApplyStockDelta adjusts the stock counter for a SKU.
func (s *Store) ApplyStockDelta(ctx context.Context, productID int64, variantID *int64, delta int) error {
	if variantID != nil {
		res, err := s.q.ExecContext(ctx,
			"UPDATE product_variant SET stock_quantity = stock_quantity + $1 WHERE variant_id = $2 AND product_id = $3",
			delta, *variantID, productID)
		if err != nil {
			return fmt.Errorf("update variant stock: %w", err)
		}
		return requireRow(res, models.ErrVariantNotFound)
	}

	res, err := s.q.ExecContext(ctx,
		"UPDATE product SET stock_quantity = stock_quantity + $1, updated_at = NOW() WHERE product_id = $2",
		delta, productID)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return requireRow(res, models.ErrProductNotFound)
}
