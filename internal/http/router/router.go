package router

import (
	"context"
	"net/http"
	"time"

	apphttp "leadradar_backend/internal/http"
	"leadradar_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// New builds the gin engine: global middleware, health and metrics
// endpoints, and the route groups every module registers on.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app.Config))
	engine.Use(httpkit.RequestLogger(app.Logger))
	if app.Metrics != nil {
		engine.Use(app.Metrics.Middleware())
	}

	engine.GET("/api/health", healthHandler(app.Health, app.OptionalHealth))
	if app.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}

	limiter := httpkit.NewIPRateLimiterFromConfig(app.Config, app.Logger)
	v1 := engine.Group("/api/v1", limiter.RateLimit())
	protected := v1.Group("", httpkit.AuthRequired(app.Config))
	admin := protected.Group("/admin", httpkit.RequireRole(httpkit.RoleAdmin))

	ctx := &apphttp.RouterContext{
		Protected: protected,
		Admin:     admin,
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(ctx)
		app.Logger.Debug("module routes registered", "module", m.Name())
	}

	return engine
}

func corsMiddleware(cfg apphttp.RouterConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.RequestIDHeader},
		ExposeHeaders:    []string{httpkit.RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	switch {
	case cfg.GetCORSAllowAll():
		corsCfg.AllowAllOrigins = true
	case len(cfg.GetCORSOrigins()) > 0:
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	default:
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(corsCfg)
}

func healthHandler(required, optional map[string]apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		details := make(map[string]string, len(required)+len(optional))
		healthy := runChecks(ctx, required, details)
		runChecks(ctx, optional, details)

		if !healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": details})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": details})
	}
}

// runChecks records each check's state in details and reports whether all passed.
func runChecks(ctx context.Context, checks map[string]apphttp.HealthChecker, details map[string]string) bool {
	ok := true
	for name, check := range checks {
		if err := check.Ping(ctx); err != nil {
			details[name] = "unavailable"
			ok = false
			continue
		}
		details[name] = "ok"
	}
	return ok
}
