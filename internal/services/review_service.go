package services

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/store"
)

type ReviewService struct {
	st store.Store
}

func NewReviewService(st store.Store) *ReviewService {
	return &ReviewService{st: st}
}

// Create writes a review, one per user and product. The verified_purchase
// flag is derived from the user's delivered orders, never taken from input.
func (s *ReviewService) Create(ctx context.Context, userID int64, req models.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.st.ProductByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.st.FindReview(ctx, userID, req.ProductID); err == nil {
		return nil, models.ErrReviewExists
	} else if !errors.Is(err, models.ErrReviewNotFound) {
		return nil, err
	}

	verified, err := s.st.HasDeliveredPurchase(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:           userID,
		ProductID:        req.ProductID,
		Rating:           req.Rating,
		Comment:          req.Comment,
		VerifiedPurchase: verified,
	}
	if err := s.st.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) List(ctx context.Context, f store.ReviewFilter) ([]models.Review, int, error) {
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		return nil, 0, models.ValidationError("rating must be between 1 and 5")
	}
	reviews, total, err := s.st.Reviews(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, total, nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	return s.st.ReviewByID(ctx, id)
}

func (s *ReviewService) Update(ctx context.Context, actor models.Actor, id int64, req models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.st.ReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if err := s.st.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	review, err := s.st.ReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actor.UserID && !actor.IsAdmin() {
		return models.ErrForbidden
	}
	return s.st.DeleteReview(ctx, id)
}

// Summary aggregates ratings for a product page.
func (s *ReviewService) Summary(ctx context.Context, productID int64) (*models.ReviewSummary, error) {
	if _, err := s.st.ProductByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.st.ReviewSummary(ctx, productID)
}
