package api

import (
	"errors"
	"net/http"
	"time"

	"subtrack/internal/database"
	"subtrack/internal/models"
	"subtrack/internal/response"
	"subtrack/pkg/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdatePriceRequest represents a price change: cost and billing cycle only,
// name and dates are immutable from the client's perspective.
type UpdatePriceRequest struct {
	Cost         float64 `json:"cost"`
	BillingCycle string  `json:"billing_cycle"`
}

// UpdateSubscriptionPrice changes the price of one subscription and records
// the change in its price history
// POST /subscriptions/:id/update-price/
func UpdateSubscriptionPrice(c *gin.Context) {
	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	errs := models.FieldErrors{}
	if req.Cost <= 0 {
		errs["cost"] = []string{"cost must be positive"}
	}
	if req.BillingCycle != models.BillingMonthly && req.BillingCycle != models.BillingAnnually {
		errs["billing_cycle"] = []string{"billing_cycle must be monthly or annually"}
	}
	if len(errs) > 0 {
		response.ValidationJSON(c, errs)
		return
	}

	now := time.Now()
	subscription, err := database.UpdateSubscriptionPrice(id, req.Cost, req.BillingCycle, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorJSON(c, http.StatusNotFound, "Subscription not found")
			return
		}
		logging.Errorf("Failed to update price for subscription %d: %v", id, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to update price")
		return
	}

	invalidateSummaryCache(c)
	c.JSON(http.StatusOK, subscription.ToView(now))
}
