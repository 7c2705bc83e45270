package routes

import (
	"botcontrol/internal/handlers"
	"botcontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupStrategyConfigRoutes sets up all routes related to the strategy
// configuration. Write endpoints are rate limited per client IP.
func SetupStrategyConfigRoutes(r *gin.Engine) {
	writeLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 2,
		Burst:             5,
	})

	strategy := r.Group("/strategy-config")
	{
		// Read-only operations
		strategy.GET("/active", handlers.GetActiveStrategyConfig)
		strategy.GET("/derived", handlers.GetDerivedValues)
		strategy.GET("/defaults", handlers.GetDefaultStrategyConfig)
		strategy.GET("/revisions", handlers.ListStrategyRevisions)
		strategy.GET("/revisions/:id", handlers.GetStrategyRevision)
		strategy.GET("/watch", handlers.WatchStrategyConfig)

		// Dry-run validation, no state change
		strategy.POST("/validate", handlers.ValidateStrategyConfig)

		// Mutating operations
		strategy.PUT("", writeLimiter, handlers.UpdateStrategyConfig)
		strategy.POST("/rollback/:id", writeLimiter, handlers.RollbackStrategyConfig)
	}
}
