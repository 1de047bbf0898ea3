package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/models"
)

const addressColumns = "address_id, user_id, street, city, state, postal_code, country, is_default, created_at"

func scanAddress(row interface{ Scan(...any) error }) (*models.Address, error) {
	var a models.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.PostalCode,
		&a.Country, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Addresses(ctx context.Context, userID int64) ([]models.Address, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+addressColumns+" FROM address WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	defer rows.Close()

	var out []models.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) AddressByID(ctx context.Context, id int64) (*models.Address, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+addressColumns+" FROM address WHERE address_id = $1", id)
	a, err := scanAddress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select address: %w", err)
	}
	return a, nil
}

func (s *Store) CreateAddress(ctx context.Context, a *models.Address) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO address (user_id, street, city, state, postal_code, country, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING address_id, created_at`,
		a.UserID, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (s *Store) UpdateAddress(ctx context.Context, a *models.Address) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE address SET street = $1, city = $2, state = $3, postal_code = $4,
		        country = $5, is_default = $6
		 WHERE address_id = $7`,
		a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault, a.ID)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return requireRow(res, models.ErrAddressNotFound)
}

func (s *Store) DeleteAddress(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM address WHERE address_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return requireRow(res, models.ErrAddressNotFound)
}

func (s *Store) ClearDefaultAddresses(ctx context.Context, userID int64) error {
	if _, err := s.q.ExecContext(ctx,
		"UPDATE address SET is_default = FALSE WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("clear default addresses: %w", err)
	}
	return nil
}

func (s *Store) CountAddresses(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM address WHERE user_id = $1", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return n, nil
}
