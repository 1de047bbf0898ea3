package memory

import (
	"context"
	"sort"

	"storefront/internal/models"
	"storefront/internal/store"
)

func (s *Store) resolveReview(r models.Review) models.Review {
	if u, ok := s.data.users[r.UserID]; ok {
		r.Username = u.Username
	}
	if p, ok := s.data.products[r.ProductID]; ok {
		r.ProductName = p.Name
	}
	return r
}

func (s *Store) Reviews(_ context.Context, f store.ReviewFilter) ([]models.Review, int, error) {
	defer s.lock()()
	var out []models.Review
	for _, r := range s.data.reviews {
		if f.ProductID != nil && r.ProductID != *f.ProductID {
			continue
		}
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.Rating != nil && r.Rating != *f.Rating {
			continue
		}
		out = append(out, s.resolveReview(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Page, f.Limit), len(out), nil
}

func (s *Store) ReviewByID(_ context.Context, id int64) (*models.Review, error) {
	defer s.lock()()
	r, ok := s.data.reviews[id]
	if !ok {
		return nil, models.ErrReviewNotFound
	}
	resolved := s.resolveReview(r)
	return &resolved, nil
}

func (s *Store) FindReview(_ context.Context, userID, productID int64) (*models.Review, error) {
	defer s.lock()()
	for _, r := range s.data.reviews {
		if r.UserID == userID && r.ProductID == productID {
			resolved := s.resolveReview(r)
			return &resolved, nil
		}
	}
	return nil, models.ErrReviewNotFound
}

func (s *Store) CreateReview(_ context.Context, r *models.Review) error {
	defer s.lock()()
	r.ID = s.data.nextID()
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
	stored := *r
	stored.Username = ""
	stored.ProductName = ""
	s.data.reviews[r.ID] = stored
	return nil
}

func (s *Store) UpdateReview(_ context.Context, r *models.Review) error {
	defer s.lock()()
	cur, ok := s.data.reviews[r.ID]
	if !ok {
		return models.ErrReviewNotFound
	}
	cur.Rating = r.Rating
	cur.Comment = r.Comment
	cur.UpdatedAt = now()
	s.data.reviews[r.ID] = cur
	*r = s.resolveReview(cur)
	return nil
}

func (s *Store) DeleteReview(_ context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.reviews[id]; !ok {
		return models.ErrReviewNotFound
	}
	delete(s.data.reviews, id)
	return nil
}

func (s *Store) ReviewSummary(_ context.Context, productID int64) (*models.ReviewSummary, error) {
	defer s.lock()()
	sum := models.ReviewSummary{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	total := 0
	for _, r := range s.data.reviews {
		if r.ProductID != productID {
			continue
		}
		sum.TotalReviews++
		sum.Distribution[r.Rating]++
		total += r.Rating
		if r.VerifiedPurchase {
			sum.VerifiedPurchases++
		}
	}
	if sum.TotalReviews > 0 {
		sum.AverageRating = float64(total) / float64(sum.TotalReviews)
	}
	return &sum, nil
}

func (s *Store) HasDeliveredPurchase(_ context.Context, userID, productID int64) (bool, error) {
	defer s.lock()()
	for orderID, items := range s.data.orderItems {
		o, ok := s.data.orders[orderID]
		if !ok || o.UserID != userID || o.Status != models.OrderStatusDelivered {
			continue
		}
		for _, it := range items {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}
