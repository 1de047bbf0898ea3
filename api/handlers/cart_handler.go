package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	cart, err := h.cartService.GetCart(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cart})
}

// POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	line, err := h.cartService.AddItem(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "item added to cart",
		"data":    line,
	})
}

// PUT /api/cart/items/:item_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req models.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	line, err := h.cartService.UpdateLine(c.Request.Context(), actor.UserID, itemID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	if line == nil {
		c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cart updated",
		"data":    line,
	})
}

// DELETE /api/cart/items/:item_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	if err := h.cartService.RemoveLine(c.Request.Context(), actor.UserID, itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
}

// DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	if err := h.cartService.Clear(c.Request.Context(), actor.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
