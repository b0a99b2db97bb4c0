package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/hotspot-portal-api/internal/models"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/response"
)

// RequireRoles gates a route to the listed roles. Authentication alone
// is not enough for the admin surface.
func RequireRoles(roles ...models.StudentRole) gin.HandlerFunc {
	allowed := make(map[models.StudentRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
