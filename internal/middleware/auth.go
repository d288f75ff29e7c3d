package middleware

import (
	"net/http"

	"subtrack/internal/config"
	"subtrack/internal/response"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware gates mutating requests behind a shared API key. The
// check is disabled when no key is configured, which is the single-user
// development setup.
func APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := ""
		if config.AppConfig != nil {
			expected = config.AppConfig.APIKey
		}
		if expected == "" {
			c.Next()
			return
		}

		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}

		if apiKey != expected {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or missing api_key"))
			c.Abort()
			return
		}

		c.Next()
	}
}
