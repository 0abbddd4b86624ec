package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/httputil"
)

// ErrorHandler logs errors attached to the context. Handlers that attached
// an error without writing a response get the standard error envelope.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := RequestLogger(c, logger)
		for _, e := range c.Errors {
			evt := log.Error().
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method)
			var appErr *errors.AppError
			if errors.As(e.Err, &appErr) {
				evt = evt.Int("code", int(appErr.Code))
			}
			evt.Msg("request error")
		}

		if !c.Writer.Written() {
			httputil.RespondWithError(c, c.Errors.Last().Err)
		}
	}
}
