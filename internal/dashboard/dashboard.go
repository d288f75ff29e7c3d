// Package dashboard derives every displayed value from a raw subscription
// list. All functions are pure and synchronous: no I/O, no clock reads, the
// caller supplies one "today" snapshot per computation.
package dashboard

import (
	"sort"
	"time"

	"subtrack/internal/models"
)

// DefaultUpcomingLimit caps the upcoming renewals card
const DefaultUpcomingLimit = 5

// NameCost is one bar of the monthly cost breakdown chart.
type NameCost struct {
	Name        string  `json:"name"`
	MonthlyCost float64 `json:"monthlyCost"`
}

// UpcomingRenewal pairs a subscription with its parsed renewal date.
type UpcomingRenewal struct {
	Subscription models.SubscriptionView `json:"subscription"`
	RenewalDate  time.Time               `json:"renewal_date"`
}

// TotalMonthlySpend sums monthly-equivalent costs across all subscriptions.
// A missing monthly cost counts as zero; an empty list totals zero.
func TotalMonthlySpend(subs []models.SubscriptionView) float64 {
	var total float64
	for _, sub := range subs {
		if sub.MonthlyCost != nil {
			total += *sub.MonthlyCost
		}
	}
	return total
}

// GroupedMonthlyCost aggregates monthly-equivalent costs by subscription
// name, in first-seen-name order. Duplicate names are summed into one entry
// rather than shown as separate bars; each group is rounded to two decimals.
func GroupedMonthlyCost(subs []models.SubscriptionView) []NameCost {
	totals := make(map[string]float64)
	var order []string
	for _, sub := range subs {
		if _, seen := totals[sub.Name]; !seen {
			order = append(order, sub.Name)
		}
		cost := 0.0
		if sub.MonthlyCost != nil {
			cost = *sub.MonthlyCost
		}
		totals[sub.Name] += cost
	}

	out := make([]NameCost, 0, len(order))
	for _, name := range order {
		out = append(out, NameCost{Name: name, MonthlyCost: models.Round2(totals[name])})
	}
	return out
}

// RenewalMarkers collects every renewal date that parses to a valid calendar
// date. Malformed dates are dropped silently; one bad record must never blank
// the calendar. Duplicates are kept, they are harmless as day markers.
func RenewalMarkers(subs []models.SubscriptionView) []time.Time {
	var markers []time.Time
	for _, sub := range subs {
		d, err := time.Parse(models.DateLayout, sub.RenewalDate)
		if err != nil {
			continue
		}
		markers = append(markers, d)
	}
	return markers
}

// UpcomingRenewals returns the limit soonest-renewing subscriptions whose
// renewal date is strictly after today, ascending. The sort is stable so
// same-day renewals keep their input order. Subscriptions whose renewal date
// fails to parse are excluded entirely, not sorted to an extreme.
func UpcomingRenewals(subs []models.SubscriptionView, today time.Time, limit int) []UpcomingRenewal {
	var upcoming []UpcomingRenewal
	for _, sub := range subs {
		d, err := time.Parse(models.DateLayout, sub.RenewalDate)
		if err != nil {
			continue
		}
		if !d.After(today) {
			continue
		}
		upcoming = append(upcoming, UpcomingRenewal{Subscription: sub, RenewalDate: d})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].RenewalDate.Before(upcoming[j].RenewalDate)
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}
