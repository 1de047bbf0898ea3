package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// GET /api/addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	addresses, err := h.addressService.List(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": addresses})
}

// GET /api/addresses/:id
func (h *AddressHandler) GetAddress(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	address, err := h.addressService.Get(c.Request.Context(), actor.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": address})
}

// POST /api/addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "address created",
		"data":    address,
	})
}

// PUT /api/addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), actor.UserID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "address updated",
		"data":    address,
	})
}

// DELETE /api/addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), actor.UserID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}

// PUT /api/addresses/:id/default
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	address, err := h.addressService.SetDefault(c.Request.Context(), actor.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "default address updated",
		"data":    address,
	})
}
