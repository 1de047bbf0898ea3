package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /api/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "order placed",
		"data":    result,
	})
}

// GET /api/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	page, limit := pageParams(c)

	f := store.OrderFilter{
		UserID: queryInt64(c, "user_id"),
		Status: models.OrderStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	}

	orders, total, err := h.orderService.List(c.Request.Context(), actor, f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       orders,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// GET /api/orders/:id/items
func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.orderService.Items(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// POST /api/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "order cancelled",
		"data":    order,
	})
}

// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.SetStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "order status updated",
		"data":    order,
	})
}

// DELETE /api/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}
