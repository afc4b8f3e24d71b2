package middleware

import (
	"net/http"

	"jasaku/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects requests whose resolved actor does not hold the admin
// role. Must run after ActorAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing actor context"})
			return
		}
		if actor.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}
