package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

const actorKey = "actor"

// Identity resolves the caller from the X-User-ID and X-User-Role headers
// set by the upstream gateway. Requests without an identity pass through
// anonymously; RequireAuth gates the routes that need one.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if idStr := c.GetHeader("X-User-ID"); idStr != "" {
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil && id > 0 {
				role := c.GetHeader("X-User-Role")
				if role != models.RoleAdmin {
					role = models.RoleCustomer
				}
				c.Set(actorKey, models.Actor{UserID: id, Role: role})
			}
		}
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(actorKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": models.ErrUnauthorized,
			})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentActor(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": models.ErrForbidden,
			})
			return
		}
		c.Next()
	}
}

// CurrentActor returns the caller set by Identity, zero-valued when the
// request is anonymous.
func CurrentActor(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		return v.(models.Actor)
	}
	return models.Actor{}
}
