package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// GET /api/payment-methods
func (h *PaymentHandler) ListPaymentMethods(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	methods, err := h.paymentService.ListMethods(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": methods})
}

// GET /api/payment-methods/:id
func (h *PaymentHandler) GetPaymentMethod(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	method, err := h.paymentService.GetMethod(c.Request.Context(), actor.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": method})
}

// POST /api/payment-methods
func (h *PaymentHandler) CreatePaymentMethod(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	method, err := h.paymentService.CreateMethod(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "payment method created",
		"data":    method,
	})
}

// PUT /api/payment-methods/:id
func (h *PaymentHandler) UpdatePaymentMethod(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	method, err := h.paymentService.UpdateMethod(c.Request.Context(), actor.UserID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment method updated",
		"data":    method,
	})
}

// DELETE /api/payment-methods/:id
func (h *PaymentHandler) DeletePaymentMethod(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeleteMethod(c.Request.Context(), actor.UserID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment method deleted"})
}

// GET /api/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	page, limit := pageParams(c)

	f := store.PaymentFilter{
		UserID: queryInt64(c, "user_id"),
		Status: models.PaymentStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), actor, f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       payments,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GET /api/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payment})
}

// POST /api/payments/process
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	payment, err := h.paymentService.Process(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment processed",
		"data":    payment,
	})
}

// PUT /api/payments/:id/status (admin)
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	payment, err := h.paymentService.UpdateStatus(c.Request.Context(), id, models.PaymentStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment status updated",
		"data":    payment,
	})
}
