package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gradnight/superlatives/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles. The role
// is the capability tag declared at join; this gates which operations are
// offered, it is not an authentication boundary.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextParticipantRole)
		if !ok {
			response.Unauthorized(c, "missing participant context")
			c.Abort()
			return
		}
		role, _ := roleVal.(string)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
