package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/httputil"
)

// TimeoutConfig represents timeout middleware configuration
type TimeoutConfig struct {
	Duration time.Duration
	// SkipPaths keep the request context untouched, e.g. long-lived websockets.
	SkipPaths []string
}

// DefaultTimeoutConfig returns default timeout configuration
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Duration: 30 * time.Second,
	}
}

// Timeout bounds the request context. A handler that runs past the deadline
// without writing gets a 503.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if config.Duration <= 0 || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			httputil.RespondWithError(c, errors.Unavailable("Tempo de resposta esgotado."))
		}
	}
}
