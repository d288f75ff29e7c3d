package database

import (
	"time"

	"subtrack/internal/models"

	"gorm.io/gorm"
)

// ListSubscriptions returns all subscriptions in creation order
func ListSubscriptions() ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := DB.Order("id ASC").Find(&subscriptions).Error
	return subscriptions, err
}

// GetSubscription fetches one subscription by id
func GetSubscription(id uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := DB.First(&subscription, id).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

// CreateSubscription inserts a subscription together with its initial price
// history entry, dated at the start of the subscription.
func CreateSubscription(subscription *models.Subscription) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subscription).Error; err != nil {
			return err
		}
		entry := models.PriceHistory{
			SubscriptionID: subscription.ID,
			EffectiveDate:  subscription.StartDate,
			Cost:           subscription.Cost,
		}
		return tx.Create(&entry).Error
	})
}

// UpdateSubscriptionPrice changes cost and billing cycle and appends a price
// history entry in the same transaction, so the history never misses a change.
func UpdateSubscriptionPrice(id uint, cost float64, billingCycle string, effective time.Time) (*models.Subscription, error) {
	var subscription models.Subscription
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subscription, id).Error; err != nil {
			return err
		}
		subscription.Cost = cost
		subscription.BillingCycle = billingCycle
		if err := tx.Save(&subscription).Error; err != nil {
			return err
		}
		entry := models.PriceHistory{
			SubscriptionID: subscription.ID,
			EffectiveDate:  effective,
			Cost:           cost,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// DeleteSubscription removes a subscription. Returns gorm.ErrRecordNotFound
// when the id does not exist.
func DeleteSubscription(id uint) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var subscription models.Subscription
		if err := tx.First(&subscription, id).Error; err != nil {
			return err
		}
		return tx.Delete(&subscription).Error
	})
}

// GetPriceHistory returns the price changes for one subscription, oldest
// first. Ordering is applied here rather than assumed from insert order.
func GetPriceHistory(subscriptionID uint) ([]models.PriceHistory, error) {
	var entries []models.PriceHistory
	err := DB.Where("subscription_id = ?", subscriptionID).
		Order("effective_date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
