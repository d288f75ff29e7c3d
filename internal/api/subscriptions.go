package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"subtrack/internal/database"
	"subtrack/internal/models"
	"subtrack/internal/response"
	"subtrack/pkg/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListResponse wraps the subscription collection under a results key
type ListResponse struct {
	Results []models.SubscriptionView `json:"results"`
}

// ListSubscriptions returns every subscription with server-computed fields
// GET /subscriptions/
func ListSubscriptions(c *gin.Context) {
	subscriptions, err := database.ListSubscriptions()
	if err != nil {
		logging.Errorf("Failed to list subscriptions: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list subscriptions")
		return
	}

	today := time.Now()
	views := make([]models.SubscriptionView, len(subscriptions))
	for i := range subscriptions {
		views[i] = subscriptions[i].ToView(today)
	}

	c.JSON(http.StatusOK, ListResponse{Results: views})
}

// CreateSubscriptionRequest represents the creation form payload
type CreateSubscriptionRequest struct {
	Name             string   `json:"name"`
	Cost             float64  `json:"cost"`
	BillingCycle     string   `json:"billing_cycle"`
	StartDate        string   `json:"start_date"`
	AnnualCostOption *float64 `json:"annual_cost_option"`
}

// CreateSubscription creates a new subscription
// POST /subscriptions/
func CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	subscription := models.Subscription{
		Name:             req.Name,
		Cost:             req.Cost,
		BillingCycle:     req.BillingCycle,
		AnnualCostOption: req.AnnualCostOption,
	}

	errs := models.FieldErrors{}
	if req.StartDate == "" {
		errs["start_date"] = []string{"start_date is required"}
	} else if d, err := time.Parse(models.DateLayout, req.StartDate); err != nil {
		errs["start_date"] = []string{"start_date must be a valid yyyy-MM-dd date"}
	} else {
		subscription.StartDate = d
	}

	if err := subscription.Validate(); err != nil {
		var fieldErrs models.FieldErrors
		if errors.As(err, &fieldErrs) {
			for field, msgs := range fieldErrs {
				if _, exists := errs[field]; !exists {
					errs[field] = msgs
				}
			}
		}
	}
	if len(errs) > 0 {
		response.ValidationJSON(c, errs)
		return
	}

	if err := database.CreateSubscription(&subscription); err != nil {
		logging.Errorf("Failed to create subscription %q: %v", subscription.Name, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to create subscription")
		return
	}

	invalidateSummaryCache(c)
	c.JSON(http.StatusCreated, subscription.ToView(time.Now()))
}

// DeleteSubscription deletes one subscription
// DELETE /subscriptions/:id/
func DeleteSubscription(c *gin.Context) {
	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	if err := database.DeleteSubscription(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorJSON(c, http.StatusNotFound, "Subscription not found")
			return
		}
		logging.Errorf("Failed to delete subscription %d: %v", id, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to delete subscription")
		return
	}

	invalidateSummaryCache(c)
	response.SuccessJSON(c, nil)
}

// subscriptionID parses the :id path parameter, writing a 400 on garbage
func subscriptionID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid subscription id: "+raw)
		return 0, false
	}
	return uint(id), true
}
