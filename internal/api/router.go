package api

import (
	"context"
	"net/http"

	"togglekit/internal/auth"
	"togglekit/internal/metrics"
	"togglekit/internal/middleware"
	"togglekit/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RouterConfig carries the routing-relevant deployment switches.
type RouterConfig struct {
	MultiTenancyEnabled bool
	RequestsPerSecond   int
	Health              func(ctx context.Context) error
}

// RegisterRoutes wires the REST surface. The tenant path segment is
// only registered when multi-tenancy is on; the evaluation endpoint is
// deliberately unauthenticated.
func RegisterRoutes(toggleHandler *ToggleHandler, auditHandler *AuditHandler, tenantHandler *TenantHandler, tenantRepo repository.TenantInterface, verifier *auth.Verifier, rdb *redis.Client, cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.CorsMiddleware(),
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.GinZapRecovery(),
		middleware.HttpMiddleware(),
		middleware.TraceMiddleware(),
	)
	r.SetTrustedProxies(nil)

	r.GET("/health", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authn := middleware.Authentication(verifier)
	membership := middleware.TenantMembership(tenantRepo, cfg.MultiTenancyEnabled)

	writeLimiter := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if rdb != nil {
		writeLimiter = middleware.RateLimitMiddleware(rdb, cfg.RequestsPerSecond)
	}

	root := r.Group("/api")

	// Tenant lifecycle is bearer-gated but not membership-gated: the
	// tenant being addressed may not exist yet.
	tenant := root.Group("/tenant", authn)
	{
		tenant.GET("", tenantHandler.List)
		tenant.GET("/:key", tenantHandler.Get)
		tenant.POST("", writeLimiter, tenantHandler.Create)
		tenant.PUT("", writeLimiter, tenantHandler.Update)
	}

	scope := root
	if cfg.MultiTenancyEnabled {
		scope = root.Group("/:tenantId")
	}

	scope.GET("/feature-toggle/:key/enabled/:environmentKey/:consumer", toggleHandler.Enabled)

	gated := scope.Group("", authn, membership)
	{
		gated.GET("/audit", auditHandler.List)
		gated.GET("/feature-toggle", toggleHandler.List)
		gated.GET("/feature-toggle/:key", toggleHandler.Get)
		gated.POST("/feature-toggle/:key", writeLimiter, toggleHandler.Create)
		gated.PUT("/feature-toggle/:key", writeLimiter, toggleHandler.Update)
	}

	return r
}
