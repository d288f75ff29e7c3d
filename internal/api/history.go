package api

import (
	"errors"
	"net/http"

	"subtrack/internal/database"
	"subtrack/internal/models"
	"subtrack/internal/response"
	"subtrack/pkg/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetPriceHistory returns the price changes for one subscription, ordered by
// effective date ascending
// GET /subscriptions/:id/history/
func GetPriceHistory(c *gin.Context) {
	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	if _, err := database.GetSubscription(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorJSON(c, http.StatusNotFound, "Subscription not found")
			return
		}
		logging.Errorf("Failed to load subscription %d: %v", id, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load subscription")
		return
	}

	entries, err := database.GetPriceHistory(id)
	if err != nil {
		logging.Errorf("Failed to load price history for subscription %d: %v", id, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load price history")
		return
	}

	views := make([]models.PriceHistoryView, len(entries))
	for i := range entries {
		views[i] = entries[i].ToView()
	}

	c.JSON(http.StatusOK, views)
}
