package models

import "time"

type Review struct {
	ID               int64     `json:"review_id"`
	UserID           int64     `json:"user_id"`
	ProductID        int64     `json:"product_id"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Username         string    `json:"username,omitempty"`
	ProductName      string    `json:"product_name,omitempty"`
}

type ReviewSummary struct {
	AverageRating     float64     `json:"average_rating"`
	TotalReviews      int         `json:"total_reviews"`
	Distribution      map[int]int `json:"distribution"`
	VerifiedPurchases int         `json:"verified_purchases"`
}

type CreateReviewRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment"`
}
