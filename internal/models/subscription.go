package models

import (
	"math"
	"strings"
	"time"
)

// Billing cycle values accepted by the API
const (
	BillingMonthly  = "monthly"
	BillingAnnually = "annually"
)

// DateLayout is the wire format for all calendar dates
const DateLayout = "2006-01-02"

// Subscription is the authoritative record for one tracked subscription.
// Cost is the price for a single billing period, as charged.
type Subscription struct {
	BaseModel

	Name         string    `json:"name" gorm:"not null;size:200"`
	Cost         float64   `json:"cost" gorm:"not null"`
	BillingCycle string    `json:"billing_cycle" gorm:"not null;size:20;index"`
	StartDate    time.Time `json:"start_date"`

	// Optional user-supplied price of an annual plan, kept only for the
	// cost comparison card.
	AnnualCostOption *float64 `json:"annual_cost_option"`

	History []PriceHistory `json:"-" gorm:"foreignKey:SubscriptionID"`
}

// PriceHistory is one append-only record per price change.
type PriceHistory struct {
	BaseModel

	SubscriptionID uint      `json:"subscription_id" gorm:"not null;index"`
	EffectiveDate  time.Time `json:"effective_date"`
	Cost           float64   `json:"cost" gorm:"not null"`
}

// NextRenewal returns the date of the next charge strictly after today,
// stepped from the start date by the billing cycle. A start date in the
// future is itself the next charge.
func (s *Subscription) NextRenewal(today time.Time) time.Time {
	d := s.StartDate
	for !d.After(today) {
		switch s.BillingCycle {
		case BillingAnnually:
			d = d.AddDate(1, 0, 0)
		default:
			d = d.AddDate(0, 1, 0)
		}
	}
	return d
}

// MonthlyCost normalizes the cost to a monthly-equivalent figure.
// Returns nil when the billing cycle is unknown.
func (s *Subscription) MonthlyCost() *float64 {
	switch s.BillingCycle {
	case BillingMonthly:
		v := s.Cost
		return &v
	case BillingAnnually:
		v := Round2(s.Cost / 12)
		return &v
	}
	return nil
}

// AnnualCost normalizes the cost to a yearly-equivalent figure.
// Returns nil when the billing cycle is unknown.
func (s *Subscription) AnnualCost() *float64 {
	switch s.BillingCycle {
	case BillingMonthly:
		v := Round2(s.Cost * 12)
		return &v
	case BillingAnnually:
		v := s.Cost
		return &v
	}
	return nil
}

// SubscriptionView is the wire representation of a subscription, including
// the server-computed fields the dashboard consumes. Clients never recompute
// the normalizations; they trust these values and fall back to an
// "unavailable" display when one is null.
type SubscriptionView struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Cost             float64  `json:"cost"`
	BillingCycle     string   `json:"billing_cycle"`
	StartDate        string   `json:"start_date"`
	RenewalDate      string   `json:"renewal_date"`
	MonthlyCost      *float64 `json:"monthly_cost"`
	AnnualCost       *float64 `json:"annual_cost"`
	AnnualCostOption *float64 `json:"annual_cost_option,omitempty"`
}

// ToView renders the subscription for the wire, computing the renewal date
// relative to today.
func (s *Subscription) ToView(today time.Time) SubscriptionView {
	return SubscriptionView{
		ID:               s.ID,
		Name:             s.Name,
		Cost:             s.Cost,
		BillingCycle:     s.BillingCycle,
		StartDate:        s.StartDate.Format(DateLayout),
		RenewalDate:      s.NextRenewal(today).Format(DateLayout),
		MonthlyCost:      s.MonthlyCost(),
		AnnualCost:       s.AnnualCost(),
		AnnualCostOption: s.AnnualCostOption,
	}
}

// PriceHistoryView is the wire representation of one price change.
type PriceHistoryView struct {
	ID            uint    `json:"id"`
	EffectiveDate string  `json:"effective_date"`
	Cost          float64 `json:"cost"`
}

// ToView renders the history entry for the wire.
func (h *PriceHistory) ToView() PriceHistoryView {
	return PriceHistoryView{
		ID:            h.ID,
		EffectiveDate: h.EffectiveDate.Format(DateLayout),
		Cost:          h.Cost,
	}
}

// FieldErrors collects validation failures keyed by field name.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return strings.Join(parts, ", ")
}

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Validate applies the creation form constraints.
func (s *Subscription) Validate() error {
	errs := FieldErrors{}
	if len(strings.TrimSpace(s.Name)) < 2 {
		errs.add("name", "name must be at least 2 characters")
	}
	if s.Cost <= 0 {
		errs.add("cost", "cost must be positive")
	}
	if s.BillingCycle != BillingMonthly && s.BillingCycle != BillingAnnually {
		errs.add("billing_cycle", "billing_cycle must be monthly or annually")
	}
	if s.StartDate.IsZero() {
		errs.add("start_date", "start_date is required")
	}
	if s.AnnualCostOption != nil && *s.AnnualCostOption <= 0 {
		errs.add("annual_cost_option", "annual_cost_option must be positive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
