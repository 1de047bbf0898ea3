package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// GET /api/products/:id/reviews
func (h *ReviewHandler) ListProductReviews(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	f := store.ReviewFilter{
		ProductID: &productID,
		Page:      page,
		Limit:     limit,
	}
	if s := c.Query("rating"); s != "" {
		if rating, err := strconv.Atoi(s); err == nil {
			f.Rating = &rating
		}
	}

	reviews, total, err := h.reviewService.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       reviews,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GET /api/products/:id/reviews/summary
func (h *ReviewHandler) GetReviewSummary(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.reviewService.Summary(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// GET /api/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": review})
}

// GET /api/users/me/reviews
func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	page, limit := pageParams(c)

	f := store.ReviewFilter{
		UserID: &actor.UserID,
		Page:   page,
		Limit:  limit,
	}

	reviews, total, err := h.reviewService.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       reviews,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "review created",
		"data":    review,
	})
}

// PUT /api/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "review updated",
		"data":    review,
	})
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
