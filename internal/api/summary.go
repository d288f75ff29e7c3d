package api

import (
	"net/http"
	"strconv"
	"time"

	"subtrack/internal/config"
	"subtrack/internal/dashboard"
	"subtrack/internal/database"
	"subtrack/internal/models"
	"subtrack/internal/response"
	"subtrack/pkg/logging"

	"github.com/gin-gonic/gin"
)

const summaryCacheKey = "dashboard:total_monthly_spend"

// SummaryResponse is the server-computed shortcut for the total spend card
type SummaryResponse struct {
	TotalMonthlySpend float64 `json:"total_monthly_spend"`
}

// GetDashboardSummary returns the total monthly spend across all
// subscriptions, cached in Redis between mutations
// GET /dashboard-summary/
func GetDashboardSummary(c *gin.Context) {
	if cached, err := database.GetCache(c.Request.Context(), summaryCacheKey); err == nil {
		if total, err := strconv.ParseFloat(cached, 64); err == nil {
			c.JSON(http.StatusOK, SummaryResponse{TotalMonthlySpend: total})
			return
		}
	}

	subscriptions, err := database.ListSubscriptions()
	if err != nil {
		logging.Errorf("Failed to compute dashboard summary: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to compute dashboard summary")
		return
	}

	today := time.Now()
	views := make([]models.SubscriptionView, len(subscriptions))
	for i := range subscriptions {
		views[i] = subscriptions[i].ToView(today)
	}
	total := models.Round2(dashboard.TotalMonthlySpend(views))

	ttl := time.Duration(config.AppConfig.SummaryCacheSeconds) * time.Second
	if err := database.SetCache(c.Request.Context(), summaryCacheKey,
		strconv.FormatFloat(total, 'f', -1, 64), ttl); err != nil {
		logging.Warnf("Failed to cache dashboard summary: %v", err)
	}

	c.JSON(http.StatusOK, SummaryResponse{TotalMonthlySpend: total})
}

// invalidateSummaryCache drops the cached total after any mutation
func invalidateSummaryCache(c *gin.Context) {
	if err := database.DeleteCache(c.Request.Context(), summaryCacheKey); err != nil {
		logging.Warnf("Failed to invalidate dashboard summary cache: %v", err)
	}
}
