package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"
	ContextLogger    = "request_logger"

	maxRequestIDLen = 64
)

// RequestID tags each request with an id, taken from X-Request-ID when the
// caller sent a usable one. The id is echoed back and bound to a child of
// logger, which is stored on the gin context and on the request context so
// zerolog.Ctx picks it up downstream.
func RequestID(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.New().String()
		}

		reqLogger := logger.With().Str(ContextRequestID, rid).Logger()
		c.Set(ContextRequestID, rid)
		c.Set(ContextLogger, reqLogger)
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}

// RequestLogger returns the logger bound by RequestID, or fallback when the
// request never went through it.
func RequestLogger(c *gin.Context, fallback zerolog.Logger) zerolog.Logger {
	if v, ok := c.Get(ContextLogger); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return l
		}
	}
	return fallback
}
