package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge         int
	Private        bool
	MustRevalidate bool
	Vary           []string
	// NoStorePrefixes always get no-store, e.g. data that changes by the minute.
	NoStorePrefixes []string
}

// DefaultCacheConfig keeps GET responses briefly: every write publishes a
// change event and the UI reloads anyway.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge:         5,
		Private:        true,
		MustRevalidate: true,
		Vary:           []string{"Accept", "Origin"},
	}
}

// Cache adds cache control headers to responses
func Cache(config CacheConfig) gin.HandlerFunc {
	directives := make([]string, 0, 3)
	if config.Private {
		directives = append(directives, "private")
	} else {
		directives = append(directives, "public")
	}
	if config.MaxAge > 0 {
		directives = append(directives, "max-age="+strconv.Itoa(config.MaxAge))
	}
	if config.MustRevalidate {
		directives = append(directives, "must-revalidate")
	}
	cacheControl := strings.Join(directives, ", ")
	vary := strings.Join(config.Vary, ", ")

	return func(c *gin.Context) {
		if c.Request.Method != "GET" || hasPrefix(c.Request.URL.Path, config.NoStorePrefixes) {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		c.Header("Cache-Control", cacheControl)
		if vary != "" {
			c.Header("Vary", vary)
		}
		c.Next()
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
