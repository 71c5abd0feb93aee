package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gradnight/superlatives/internal/identity"
	"github.com/gradnight/superlatives/pkg/response"
)

const (
	// ContextParticipantID is the key for participant ID in gin context.
	ContextParticipantID = "participant_id"
	// ContextParticipantRole is the key for participant role in gin context.
	ContextParticipantRole = "participant_role"
	// ContextParticipantName is the key for participant name in gin context.
	ContextParticipantName = "participant_name"
)

// JWT returns a middleware that validates the participant token and sets the
// identity claims in context.
func JWT(jwtService *identity.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextParticipantID, claims.ParticipantID)
		c.Set(ContextParticipantRole, string(claims.Role))
		c.Set(ContextParticipantName, claims.Name)
		c.Next()
	}
}
