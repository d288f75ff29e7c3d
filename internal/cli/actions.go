package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"subtrack/internal/client"
	"subtrack/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// API is the slice of the subscription client the terminal front end uses.
type API interface {
	List(ctx context.Context) ([]models.SubscriptionView, error)
	Create(ctx context.Context, req client.CreateRequest) (*models.SubscriptionView, error)
	UpdatePrice(ctx context.Context, id uint, cost float64, billingCycle string) (*models.SubscriptionView, error)
	Delete(ctx context.Context, id uint) error
	History(ctx context.Context, id uint) ([]models.PriceHistoryView, error)
	DashboardSummary(ctx context.Context) (*client.Summary, error)
}

// LoadDashboard fetches everything one render pass needs. A malformed list
// payload degrades to an empty dashboard with a message on warn instead of
// aborting; any other list failure is returned as-is.
func LoadDashboard(ctx context.Context, api API, warn io.Writer, selectID uint, limit int) (*Dashboard, error) {
	subs, err := api.List(ctx)
	if err != nil {
		var shapeErr *client.DataShapeError
		if !errors.As(err, &shapeErr) {
			return nil, err
		}
		fmt.Fprintf(warn, "Warning: %v\n", err)
		subs = nil
	}

	board := &Dashboard{
		Subscriptions: subs,
		Today:         time.Now(),
		Limit:         limit,
	}

	if selectID != 0 {
		for i := range subs {
			if subs[i].ID == selectID {
				board.Selected = &subs[i]
				break
			}
		}
		if board.Selected == nil {
			fmt.Fprintf(warn, "Warning: subscription %d not found, nothing selected\n", selectID)
		}
	}

	// Prefer the server-computed total; fall back to the local aggregation
	if summary, err := api.DashboardSummary(ctx); err == nil {
		board.TotalMonthlySpend = &summary.TotalMonthlySpend
	} else {
		fmt.Fprintf(warn, "Warning: dashboard summary unavailable, computing locally: %v\n", err)
	}

	return board, nil
}

// AddSubscription validates the form fields, creates the subscription, then
// re-fetches the full list and renders the updated dashboard. Validation
// failures never reach the server.
func AddSubscription(ctx context.Context, api API, out, warn io.Writer, req client.CreateRequest) error {
	if err := validateCreate(req); err != nil {
		return err
	}

	created, err := api.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %q (id %d), next renewal %s\n\n", created.Name, created.ID, created.RenewalDate)

	return refresh(ctx, api, out, warn)
}

// ChangePrice validates the new price, applies it, then re-fetches and
// renders the updated dashboard.
func ChangePrice(ctx context.Context, api API, out, warn io.Writer, id uint, cost float64, billingCycle string) error {
	errs := models.FieldErrors{}
	if cost <= 0 {
		errs["cost"] = []string{"cost must be positive"}
	}
	if billingCycle != models.BillingMonthly && billingCycle != models.BillingAnnually {
		errs["billing_cycle"] = []string{"billing_cycle must be monthly or annually"}
	}
	if len(errs) > 0 {
		return errs
	}

	updated, err := api.UpdatePrice(ctx, id, cost, billingCycle)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %q to %.2f (%s)\n\n", updated.Name, updated.Cost, updated.BillingCycle)

	return refresh(ctx, api, out, warn)
}

// RemoveSubscription deletes one subscription after a confirmation prompt,
// then re-fetches and renders the updated dashboard. force skips the prompt.
func RemoveSubscription(ctx context.Context, api API, in io.Reader, out, warn io.Writer, id uint, force bool) error {
	if !force {
		fmt.Fprintf(out, "Delete subscription %d? [y/N]: ", id)
		if !confirmed(in) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := api.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted subscription %d\n\n", id)

	return refresh(ctx, api, out, warn)
}

// PrintHistory renders the price changes of one subscription, oldest first.
func PrintHistory(ctx context.Context, api API, out io.Writer, id uint) error {
	entries, err := api.History(ctx, id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No price changes recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Effective", "Cost"})
	for _, entry := range entries {
		t.AppendRow(table.Row{entry.EffectiveDate, fmt.Sprintf("%.2f", entry.Cost)})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
	return nil
}

// refresh re-fetches the full list after a successful mutation and renders
// the dashboard from the fresh data.
func refresh(ctx context.Context, api API, out, warn io.Writer) error {
	board, err := LoadDashboard(ctx, api, warn, 0, 0)
	if err != nil {
		return err
	}
	board.Print(out)
	return nil
}

// validateCreate applies the creation form constraints, keyed by field the
// same way the server rejects them.
func validateCreate(req client.CreateRequest) error {
	sub := models.Subscription{
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
		sub.StartDate = d
	}

	if err := sub.Validate(); err != nil {
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
		return errs
	}
	return nil
}

func confirmed(in io.Reader) bool {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
