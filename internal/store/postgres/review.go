package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

const reviewQuery = `
SELECT r.review_id, r.user_id, r.product_id, r.rating, r.comment, r.verified_purchase,
       r.created_at, r.updated_at, u.username, p.name
FROM review r
JOIN users u ON r.user_id = u.user_id
JOIN product p ON r.product_id = p.product_id`

func scanReview(row interface{ Scan(...any) error }) (*models.Review, error) {
	var r models.Review
	err := row.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment, &r.VerifiedPurchase,
		&r.CreatedAt, &r.UpdatedAt, &r.Username, &r.ProductName)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) Reviews(ctx context.Context, f store.ReviewFilter) ([]models.Review, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	idx := 1

	if f.ProductID != nil {
		where += fmt.Sprintf(" AND r.product_id = $%d", idx)
		args = append(args, *f.ProductID)
		idx++
	}
	if f.UserID != nil {
		where += fmt.Sprintf(" AND r.user_id = $%d", idx)
		args = append(args, *f.UserID)
		idx++
	}
	if f.Rating != nil {
		where += fmt.Sprintf(" AND r.rating = $%d", idx)
		args = append(args, *f.Rating)
		idx++
	}

	var total int
	if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM review r"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d", reviewQuery, where, idx, idx+1)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

func (s *Store) ReviewByID(ctx context.Context, id int64) (*models.Review, error) {
	row := s.q.QueryRowContext(ctx, reviewQuery+" WHERE r.review_id = $1", id)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select review: %w", err)
	}
	return r, nil
}

func (s *Store) FindReview(ctx context.Context, userID, productID int64) (*models.Review, error) {
	row := s.q.QueryRowContext(ctx, reviewQuery+" WHERE r.user_id = $1 AND r.product_id = $2", userID, productID)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	return r, nil
}

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO review (user_id, product_id, rating, comment, verified_purchase)
		 VALUES ($1, $2, $3, $4, $5) RETURNING review_id, created_at, updated_at`,
		r.UserID, r.ProductID, r.Rating, r.Comment, r.VerifiedPurchase).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *Store) UpdateReview(ctx context.Context, r *models.Review) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE review SET rating = $1, comment = $2, updated_at = NOW() WHERE review_id = $3",
		r.Rating, r.Comment, r.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return requireRow(res, models.ErrReviewNotFound)
}

func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM review WHERE review_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return requireRow(res, models.ErrReviewNotFound)
}

func (s *Store) ReviewSummary(ctx context.Context, productID int64) (*models.ReviewSummary, error) {
	var (
		avg      sql.NullFloat64
		sum      models.ReviewSummary
		byRating [5]int
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*),
		        COUNT(*) FILTER (WHERE rating = 1),
		        COUNT(*) FILTER (WHERE rating = 2),
		        COUNT(*) FILTER (WHERE rating = 3),
		        COUNT(*) FILTER (WHERE rating = 4),
		        COUNT(*) FILTER (WHERE rating = 5),
		        COUNT(*) FILTER (WHERE verified_purchase)
		 FROM review WHERE product_id = $1`, productID).
		Scan(&avg, &sum.TotalReviews, &byRating[0], &byRating[1], &byRating[2], &byRating[3], &byRating[4],
			&sum.VerifiedPurchases)
	if err != nil {
		return nil, fmt.Errorf("review summary: %w", err)
	}

	sum.AverageRating = avg.Float64
	sum.Distribution = map[int]int{}
	for i, n := range byRating {
		sum.Distribution[i+1] = n
	}
	return &sum, nil
}

func (s *Store) HasDeliveredPurchase(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM order_item oi
		   JOIN orders o ON oi.order_id = o.order_id
		   WHERE o.user_id = $1 AND oi.product_id = $2 AND o.status = 'delivered')`,
		userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check delivered purchase: %w", err)
	}
	return exists, nil
}
