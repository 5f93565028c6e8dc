package server

import (
	"math"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/health"
	"tailor-backend/internal/shared/config"
	"tailor-backend/internal/shared/metrics"
	"tailor-backend/internal/shared/server/middleware"
	"tailor-backend/internal/tailor"
	"tailor-backend/internal/templates"
	"tailor-backend/internal/usage"
)

// RouterDeps carries the handlers the router mounts. Bootstrap fills it;
// tests pass just the handlers they exercise.
type RouterDeps struct {
	Config          config.Config
	HealthHandler   *health.Handler
	TemplateHandler *templates.Handler
	TailorHandler   *tailor.Handler
	UsageHandler    *usage.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Probe and metrics endpoints sit outside the identity-scoped /api group.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	if deps.HealthHandler != nil {
		deps.HealthHandler.RegisterRoutes(r)
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(
		middleware.Identity(),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	registerMeRoutes(api)
	if deps.TemplateHandler != nil {
		deps.TemplateHandler.RegisterRoutes(api)
	}
	if deps.TailorHandler != nil {
		deps.TailorHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.IsDevLike() {
			dev := api.Group("/dev")
			deps.UsageHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// rateLimitConfig derives the per-group token bucket rules. Writes (job
// submission, template upload) get a tighter budget than polling reads.
func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	writeRate := math.Max(1, cfg.RateLimitRPS/5)
	writeBurst := max(2, cfg.RateLimitBurst/5)

	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			switch c.Request.Method {
			case "POST", "PUT", "PATCH", "DELETE":
				return middleware.WriteGroup
			default:
				return "DEFAULT"
			}
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":             {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			middleware.WriteGroup: {Rate: writeRate, Burst: writeBurst},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
