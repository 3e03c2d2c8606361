package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"
)

// RequestID propagates the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// ErrorLogger logs detailed error information and recovers from panics.
func ErrorLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(log, c, start, "panic", err).
					Bytes("stack", debug.Stack()).
					Msg("request_error")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					logRequestError(log, c, start, "http_error", fmt.Errorf("status=%d", c.Writer.Status())).
						Msg("request_error")
				}
				return
			}

			for _, e := range c.Errors {
				ev := logRequestError(log, c, start, fmt.Sprintf("%v", e.Type), e.Err)
				if e.Meta != nil {
					ev = ev.Interface("meta", e.Meta)
				}
				ev.Msg("request_error")
			}
		}()

		c.Next()
	}
}

func logRequestError(log zerolog.Logger, c *gin.Context, start time.Time, errType string, err error) *zerolog.Event {
	return log.Error().
		Err(err).
		Str("type", errType).
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Str("user", c.GetString(ContextUserID)).
		Str("role", c.GetString(ContextRole)).
		Str("request_id", requestID(c)).
		Dur("latency", time.Since(start))
}

func requestID(c *gin.Context) string {
	if id := c.GetString(ContextRequestID); id != "" {
		return id
	}
	return c.GetHeader(HeaderRequestID)
}
