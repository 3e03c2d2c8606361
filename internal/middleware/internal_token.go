package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"hotelops/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// InternalTokenAuth protects machine endpoints (schedulers, cron) with a
// static bearer token. An empty allowedIPs list accepts any client address.
func InternalTokenAuth(expected string, allowedIPs []string, log zerolog.Logger) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedIPs))
	for _, ip := range allowedIPs {
		allowed[ip] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(allowed) > 0 {
			if _, ok := allowed[c.ClientIP()]; !ok {
				logAuthFailure(log, c, http.StatusForbidden, "ip_not_allowed")
				response.Error(c, http.StatusForbidden, "AUTH_INVALID", "IP not allowed")
				c.Abort()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(log, c, http.StatusUnauthorized, "missing_auth")
			response.Error(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logAuthFailure(log, c, http.StatusUnauthorized, "invalid_auth_format")
			response.Error(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		if expected == "" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
			logAuthFailure(log, c, http.StatusForbidden, "invalid_token")
			response.Error(c, http.StatusForbidden, "AUTH_INVALID", "Invalid internal token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, "internal")
		c.Next()
	}
}

func logAuthFailure(log zerolog.Logger, c *gin.Context, status int, reason string) {
	log.Warn().
		Int("status", status).
		Str("request_id", c.GetString(ContextRequestID)).
		Str("client_ip", c.ClientIP()).
		Str("reason", reason).
		Msg("internal_auth_failed")
}
