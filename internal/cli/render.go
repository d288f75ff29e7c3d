package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"subtrack/internal/dashboard"
	"subtrack/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Dashboard bundles everything one render pass needs.
type Dashboard struct {
	Subscriptions []models.SubscriptionView
	Selected      *models.SubscriptionView

	// TotalMonthlySpend comes from the server's dashboard-summary shortcut
	// when available; nil means compute it locally.
	TotalMonthlySpend *float64

	Today time.Time
	Limit int
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Subscriptions     []models.SubscriptionView   `json:"subscriptions"`
	TotalMonthlySpend float64                     `json:"total_monthly_spend"`
	UpcomingRenewals  []dashboard.UpcomingRenewal `json:"upcoming_renewals"`
	CostBreakdown     []dashboard.NameCost        `json:"cost_breakdown"`
	RenewalDates      []string                    `json:"renewal_dates"`
	Comparison        dashboard.Comparison        `json:"comparison"`
	ComparisonText    string                      `json:"comparison_text"`
}

func (d *Dashboard) limit() int {
	if d.Limit > 0 {
		return d.Limit
	}
	return dashboard.DefaultUpcomingLimit
}

func (d *Dashboard) total() float64 {
	if d.TotalMonthlySpend != nil {
		return *d.TotalMonthlySpend
	}
	return models.Round2(dashboard.TotalMonthlySpend(d.Subscriptions))
}

// PrintJSON writes the whole derived view as one JSON document
func (d *Dashboard) PrintJSON(w io.Writer) error {
	comparison := dashboard.Compare(d.Selected)
	out := JSONOutput{
		Subscriptions:     d.Subscriptions,
		TotalMonthlySpend: d.total(),
		UpcomingRenewals:  dashboard.UpcomingRenewals(d.Subscriptions, d.Today, d.limit()),
		CostBreakdown:     dashboard.GroupedMonthlyCost(d.Subscriptions),
		RenewalDates:      markerStrings(d.Subscriptions),
		Comparison:        comparison,
		ComparisonText:    comparison.Narrative(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Print renders the summary cards followed by the subscription table
func (d *Dashboard) Print(w io.Writer) {
	fmt.Fprintf(w, "Total monthly spend: %.2f\n\n", d.total())

	d.printUpcoming(w)
	d.printBreakdown(w)

	fmt.Fprintf(w, "Renewal days: %s\n\n", joinDates(markerStrings(d.Subscriptions)))
	fmt.Fprintf(w, "Annual cost comparison: %s\n\n", dashboard.Compare(d.Selected).Narrative())

	d.printTable(w)
}

func (d *Dashboard) printUpcoming(w io.Writer) {
	upcoming := dashboard.UpcomingRenewals(d.Subscriptions, d.Today, d.limit())
	if len(upcoming) == 0 {
		fmt.Fprintln(w, "No upcoming renewals.")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "Upcoming renewals:")
	for _, item := range upcoming {
		fmt.Fprintf(w, "  %s  %s - %.2f\n",
			item.RenewalDate.Format(models.DateLayout),
			item.Subscription.Name,
			item.Subscription.Cost)
	}
	fmt.Fprintln(w)
}

func (d *Dashboard) printBreakdown(w io.Writer) {
	breakdown := dashboard.GroupedMonthlyCost(d.Subscriptions)
	if len(breakdown) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Monthly"})
	for _, entry := range breakdown {
		t.AppendRow(table.Row{entry.Name, fmt.Sprintf("%.2f", entry.MonthlyCost)})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), text.Bold.Sprintf("%.2f", d.total())})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)
}

func (d *Dashboard) printTable(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Cost", "Cycle", "Started", "Renews", "Monthly", "Annual"})

	for _, sub := range d.Subscriptions {
		row := table.Row{
			sub.ID, sub.Name,
			fmt.Sprintf("%.2f", sub.Cost),
			sub.BillingCycle,
			sub.StartDate,
			sub.RenewalDate,
			formatOptional(sub.MonthlyCost),
			formatOptional(sub.AnnualCost),
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	t.Render()
}

// formatOptional renders a nullable cost, N/A when the server sent null
func formatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// markerStrings returns the distinct valid renewal dates, sorted
func markerStrings(subs []models.SubscriptionView) []string {
	markers := dashboard.RenewalMarkers(subs)
	seen := make(map[string]bool)
	var out []string
	for _, d := range markers {
		s := d.Format(models.DateLayout)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func joinDates(dates []string) string {
	if len(dates) == 0 {
		return "none"
	}
	out := dates[0]
	for _, d := range dates[1:] {
		out += ", " + d
	}
	return out
}
