package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	user, err := h.userService.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated",
		"data":    user,
	})
}

// GET /api/users (admin)
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	users, total, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       users,
		"pagination": models.NewPagination(page, limit, total),
	})
}
