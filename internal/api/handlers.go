package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/flavorfind/backend/internal/middleware"
	"github.com/pageza/flavorfind/backend/internal/service"
)

// HealthChecker reports whether a backing service is reachable
type HealthChecker func(ctx context.Context) error

// Dependencies are the services the API is built from
type Dependencies struct {
	Sessions       service.ISessionService
	Recipes        service.IRecipeClient
	Tracker        *service.SearchTracker
	SearchLimiter  middleware.Limiter
	SessionLimiter middleware.Limiter
	Health         HealthChecker
}

// HealthCheck returns the health status of the API
func HealthCheck(check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/healthz", HealthCheck(deps.Health))

	v1 := router.Group("/api/v1")
	NewSessionHandler(deps.Sessions, deps.SessionLimiter).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Sessions))

	NewKeyHandler(deps.Sessions).RegisterRoutes(protected)
	NewRecipeHandler(deps.Sessions, deps.Recipes, deps.Tracker, deps.SearchLimiter).RegisterRoutes(protected)
	NewFavoriteHandler(deps.Sessions).RegisterRoutes(protected)
}
