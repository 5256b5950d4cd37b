package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/hsawada/project-management-api/internal/constants"
	apierrors "github.com/hsawada/project-management-api/internal/errors"
	"github.com/hsawada/project-management-api/internal/token"
)

// RequireAuth verifies the bearer token in the x-auth-token header and
// attaches the resolved user ID to the request context. It resolves
// identity only; resource-level authorization happens downstream.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(constants.HeaderAuthToken)
		if raw == "" {
			apierrors.Unauthorized(c, "No token, authorization denied")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			apierrors.Unauthorized(c, "Token is not valid")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
