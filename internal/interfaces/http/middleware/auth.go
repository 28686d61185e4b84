package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lineshop/backend/internal/infrastructure/auth"
	"github.com/lineshop/backend/internal/interfaces/http/dto"
)

// SessionValidator validates a session token and returns its claims.
type SessionValidator interface {
	ValidateSession(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid Bearer session token.
func RequireAuth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "missing bearer token"))
			return
		}

		claims, err := sessions.ValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "invalid session token"))
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
