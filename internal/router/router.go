package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/flavorfind/backend/internal/api"
	"github.com/pageza/flavorfind/backend/internal/middleware"
)

// SetupRouter configures the application middleware and routes
func SetupRouter(log *zap.Logger, corsOrigins []string, deps api.Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(corsOrigins))

	api.RegisterRoutes(router, deps)

	return router
}
