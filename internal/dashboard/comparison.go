package dashboard

import (
	"fmt"

	"subtrack/internal/models"
)

// ComparisonState tags the four mutually exclusive outcomes of the annual
// cost comparison card.
type ComparisonState string

const (
	// ComparisonNoSelection prompts the user to pick a subscription
	ComparisonNoSelection ComparisonState = "no_selection"
	// ComparisonAnnualPlan reports the native cost of an annual subscription
	ComparisonAnnualPlan ComparisonState = "annual_plan"
	// ComparisonUnavailable signals missing or non-numeric cost data
	ComparisonUnavailable ComparisonState = "unavailable"
	// ComparisonMonthly carries the annual figure and optional savings
	ComparisonMonthly ComparisonState = "monthly"
)

// Comparison is the derived content of the annual cost comparison card.
type Comparison struct {
	State ComparisonState `json:"state"`

	// AnnualCost is the yearly figure being reported: the native cost for an
	// annual plan, or the computed annual-equivalent for a monthly one.
	AnnualCost float64 `json:"annual_cost,omitempty"`

	// AnnualOption is the user-supplied annual plan price, when provided.
	AnnualOption *float64 `json:"annual_option,omitempty"`

	// Savings is AnnualCost - AnnualOption, set only when it is strictly
	// positive. Break-even is reported as no savings, never as a saving of
	// zero.
	Savings *float64 `json:"savings,omitempty"`
}

// Compare evaluates the comparison decision tree for the selected
// subscription. A nil selection yields the prompt state.
func Compare(selected *models.SubscriptionView) Comparison {
	if selected == nil {
		return Comparison{State: ComparisonNoSelection}
	}

	if selected.BillingCycle == models.BillingAnnually {
		// Native annual cost, no derivation needed
		return Comparison{State: ComparisonAnnualPlan, AnnualCost: selected.Cost}
	}

	if selected.MonthlyCost == nil || selected.AnnualCost == nil {
		return Comparison{State: ComparisonUnavailable}
	}

	out := Comparison{
		State:        ComparisonMonthly,
		AnnualCost:   *selected.AnnualCost,
		AnnualOption: selected.AnnualCostOption,
	}
	if selected.AnnualCostOption != nil {
		savings := *selected.AnnualCost - *selected.AnnualCostOption
		if savings > 0 {
			out.Savings = &savings
		}
	}
	return out
}

// Narrative renders the card copy for the comparison outcome.
func (c Comparison) Narrative() string {
	switch c.State {
	case ComparisonNoSelection:
		return "Select a monthly subscription from the table to see cost comparisons."
	case ComparisonAnnualPlan:
		return fmt.Sprintf("Currently on an annual plan (%.2f/year).", c.AnnualCost)
	case ComparisonUnavailable:
		return "Cost information missing or invalid."
	}

	text := fmt.Sprintf("Annual cost if paying monthly: %.2f/year.", c.AnnualCost)
	switch {
	case c.AnnualOption == nil:
		text += " No specific annual plan cost provided for comparison."
	case c.Savings != nil:
		text += fmt.Sprintf(" If you switched to an annual plan at %.2f/year, you could save %.2f/year.",
			*c.AnnualOption, *c.Savings)
	default:
		text += fmt.Sprintf(" An annual option costs %.2f/year.", *c.AnnualOption)
	}
	return text
}
