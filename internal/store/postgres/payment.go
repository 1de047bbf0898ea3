package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

const paymentMethodColumns = "payment_method_id, user_id, type, provider, account_number, is_default, created_at"

func scanPaymentMethod(row interface{ Scan(...any) error }) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := row.Scan(&m.ID, &m.UserID, &m.Type, &m.Provider, &m.AccountNumber, &m.IsDefault, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) PaymentMethods(ctx context.Context, userID int64) ([]models.PaymentMethod, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+paymentMethodColumns+" FROM payment_method WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("select payment methods: %w", err)
	}
	defer rows.Close()

	var out []models.PaymentMethod
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *Store) PaymentMethodByID(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+paymentMethodColumns+" FROM payment_method WHERE payment_method_id = $1", id)
	m, err := scanPaymentMethod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrPaymentMethodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select payment method: %w", err)
	}
	return m, nil
}

func (s *Store) CreatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO payment_method (user_id, type, provider, account_number, is_default)
		 VALUES ($1, $2, $3, $4, $5) RETURNING payment_method_id, created_at`,
		m.UserID, m.Type, m.Provider, m.AccountNumber, m.IsDefault).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment method: %w", err)
	}
	return nil
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE payment_method SET type = $1, provider = $2, account_number = $3, is_default = $4
		 WHERE payment_method_id = $5`,
		m.Type, m.Provider, m.AccountNumber, m.IsDefault, m.ID)
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	return requireRow(res, models.ErrPaymentMethodNotFound)
}

func (s *Store) DeletePaymentMethod(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM payment_method WHERE payment_method_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return requireRow(res, models.ErrPaymentMethodNotFound)
}

func (s *Store) ClearDefaultPaymentMethods(ctx context.Context, userID int64) error {
	if _, err := s.q.ExecContext(ctx,
		"UPDATE payment_method SET is_default = FALSE WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("clear default payment methods: %w", err)
	}
	return nil
}

func (s *Store) CountPaymentMethods(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payment_method WHERE user_id = $1", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count payment methods: %w", err)
	}
	return n, nil
}

const paymentColumns = "payment_id, order_id, payment_method_id, amount, status, reference, created_at, updated_at"

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.PaymentMethodID, &p.Amount, &p.Status,
		&p.Reference, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO payment (order_id, payment_method_id, amount, status, reference)
		 VALUES ($1, $2, $3, $4, $5) RETURNING payment_id, created_at, updated_at`,
		p.OrderID, p.PaymentMethodID, p.Amount, p.Status, p.Reference).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *Store) PaymentByID(ctx context.Context, id int64) (*models.Payment, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE payment_id = $1", id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select payment: %w", err)
	}
	return p, nil
}

func (s *Store) PaymentByOrder(ctx context.Context, orderID int64) (*models.Payment, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE order_id = $1", orderID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select payment by order: %w", err)
	}
	return p, nil
}

func (s *Store) Payments(ctx context.Context, f store.PaymentFilter) ([]models.Payment, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	idx := 1

	if f.UserID != nil {
		where += fmt.Sprintf(" AND o.user_id = $%d", idx)
		args = append(args, *f.UserID)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND p.status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}

	from := " FROM payment p JOIN orders o ON p.order_id = o.order_id"

	var total int
	if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT p.payment_id, p.order_id, p.payment_method_id, p.amount, p.status,
		        p.reference, p.created_at, p.updated_at%s%s
		 ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		from, where, idx, idx+1)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select payments: %w", err)
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (s *Store) UpdatePayment(ctx context.Context, p *models.Payment) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE payment SET payment_method_id = $1, status = $2, reference = $3, updated_at = NOW()
		 WHERE payment_id = $4`,
		p.PaymentMethodID, p.Status, p.Reference, p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return requireRow(res, models.ErrPaymentNotFound)
}
