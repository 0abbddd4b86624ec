package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/odonto/admin-api/internal/handler/prometheus"
	"github.com/odonto/admin-api/internal/middleware"
)

const WebsocketPath = "/api/v1/ws"

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	health   Handler
	metrics  *prometheus.Handler
	handlers []Handler
}

type RouterConfig struct {
	Mode           string
	RateLimit      rate.Limit
	RateBurst      int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	Logger         zerolog.Logger
}

// NewRouter builds the engine with the middleware chain. health is mounted
// outside the rate limiter; handlers go under /api/v1.
func NewRouter(config RouterConfig, metrics *prometheus.Handler, health Handler, handlers ...Handler) *Router {
	if config.Mode == "" {
		config.Mode = gin.ReleaseMode
	}
	gin.SetMode(config.Mode)
	middleware.RegisterValidation()

	engine := gin.New()

	r := &Router{
		engine:   engine,
		health:   health,
		metrics:  metrics,
		handlers: handlers,
	}

	engine.Use(
		middleware.Recovery(config.Logger),
		middleware.RequestID(config.Logger),
		middleware.Logger(config.Logger),
		middleware.ErrorHandler(config.Logger),
		metrics.Middleware(),
		middleware.Timeout(middleware.TimeoutConfig{
			Duration:  config.RequestTimeout,
			SkipPaths: []string{WebsocketPath},
		}),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
	)

	return r
}

func (r *Router) Setup(config RouterConfig) {
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.health.RegisterRoutes(api)

	limited := api.Group("")
	if config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		limited.Use(limiter.RateLimit())
	}
	limited.Use(
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig()),
		middleware.Cache(cacheConfig()),
	)
	for _, h := range r.handlers {
		h.RegisterRoutes(limited)
	}
}

func cacheConfig() middleware.CacheConfig {
	cfg := middleware.DefaultCacheConfig()
	cfg.NoStorePrefixes = []string{
		"/api/v1/notifications",
		"/api/v1/agenda/now",
		"/api/v1/dashboard",
		WebsocketPath,
	}
	return cfg
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
