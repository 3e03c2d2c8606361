package middleware

import (
	"net/http"
	"strings"

	"hotelops/internal/pkg/jwt"
	"hotelops/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth requires a Bearer token and stores the caller identity and role in
// the gin context.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		scheme, tokenStr, ok := strings.Cut(h, " ")
		tokenStr = strings.TrimSpace(tokenStr)
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// CallerID returns the authenticated caller, or "" outside JWTAuth.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
