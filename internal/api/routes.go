package api

import (
	"subtrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// Collection resource
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.GET("/", ListSubscriptions)
		subscriptions.GET("/:id/history/", GetPriceHistory)

		// Mutations optionally gated by a shared API key
		mutations := subscriptions.Group("")
		mutations.Use(middleware.APIKeyMiddleware())
		{
			mutations.POST("/", CreateSubscription)
			mutations.DELETE("/:id/", DeleteSubscription)
			mutations.POST("/:id/update-price/", UpdateSubscriptionPrice)
		}
	}

	// Server-computed shortcut for the total spend card
	r.GET("/dashboard-summary/", GetDashboardSummary)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "subtrack",
		})
	})
}
