package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/httputil"
)

// Recovery turns a handler panic into a 500 with the standard envelope.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("request panic recovered")

				if c.Writer.Written() {
					c.Abort()
					return
				}
				httputil.RespondWithError(c, errors.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
