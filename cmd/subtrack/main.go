package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"subtrack/internal/cli"
	"subtrack/internal/client"

	"github.com/GiGurra/boa/pkg/boa"
)

// DashboardParams configures the default dashboard render.
type DashboardParams struct {
	Server string `descr:"Base URL of the subscription API (overrides config file)"`
	Config string `descr:"Path to the config file (default ~/.subtrack.yaml)"`
	Select uint   `descr:"Subscription id to drive the annual cost comparison card"`
	Limit  int    `descr:"Max upcoming renewals to show"`
	JSON   bool   `descr:"Emit the derived dashboard as JSON instead of tables"`
	Export string `descr:"Write the subscription table to this .xlsx file"`
}

// AddParams is the creation form.
type AddParams struct {
	Server       string  `descr:"Base URL of the subscription API (overrides config file)"`
	Config       string  `descr:"Path to the config file (default ~/.subtrack.yaml)"`
	Name         string  `descr:"Subscription name"`
	Cost         float64 `descr:"Price per billing period"`
	Cycle        string  `descr:"Billing cycle: monthly or annually"`
	Start        string  `descr:"First charge date (yyyy-MM-dd)"`
	AnnualOption float64 `descr:"Optional annual plan price for the comparison card"`
}

// UpdatePriceParams changes the cost of one subscription.
type UpdatePriceParams struct {
	Server string  `descr:"Base URL of the subscription API (overrides config file)"`
	Config string  `descr:"Path to the config file (default ~/.subtrack.yaml)"`
	ID     uint    `descr:"Subscription id"`
	Cost   float64 `descr:"New price per billing period"`
	Cycle  string  `descr:"Billing cycle: monthly or annually"`
}

// DeleteParams removes one subscription.
type DeleteParams struct {
	Server string `descr:"Base URL of the subscription API (overrides config file)"`
	Config string `descr:"Path to the config file (default ~/.subtrack.yaml)"`
	ID     uint   `descr:"Subscription id"`
	Yes    bool   `descr:"Skip the confirmation prompt"`
}

// HistoryParams shows the price changes of one subscription.
type HistoryParams struct {
	Server string `descr:"Base URL of the subscription API (overrides config file)"`
	Config string `descr:"Path to the config file (default ~/.subtrack.yaml)"`
	ID     uint   `descr:"Subscription id"`
}

func main() {
	boa.NewCmdT[DashboardParams]("subtrack").
		WithShort("Terminal dashboard for tracked subscriptions").
		WithLong("Fetches subscriptions from a subtrack server and renders the summary cards: total monthly spend, upcoming renewals, cost breakdown, renewal days and the annual cost comparison. Subcommands add, change, delete and inspect subscriptions.").
		WithSubCmds(
			addCmd(),
			updatePriceCmd(),
			deleteCmd(),
			historyCmd(),
		).
		WithRunFunc(func(params *DashboardParams) {
			exitOnErr(runDashboard(params))
		}).
		Run()
}

func addCmd() boa.Cmd {
	return boa.NewCmdT[AddParams]("add").
		WithShort("Create a subscription, then re-render the dashboard").
		WithRunFunc(func(params *AddParams) {
			exitOnErr(runAdd(params))
		}).
		ToCmd()
}

func updatePriceCmd() boa.Cmd {
	return boa.NewCmdT[UpdatePriceParams]("update-price").
		WithShort("Change the price of a subscription, then re-render the dashboard").
		WithRunFunc(func(params *UpdatePriceParams) {
			exitOnErr(runUpdatePrice(params))
		}).
		ToCmd()
}

func deleteCmd() boa.Cmd {
	return boa.NewCmdT[DeleteParams]("delete").
		WithShort("Delete a subscription after confirmation, then re-render the dashboard").
		WithRunFunc(func(params *DeleteParams) {
			exitOnErr(runDelete(params))
		}).
		ToCmd()
}

func historyCmd() boa.Cmd {
	return boa.NewCmdT[HistoryParams]("history").
		WithShort("Show the price changes of a subscription").
		WithRunFunc(func(params *HistoryParams) {
			exitOnErr(runHistory(params))
		}).
		ToCmd()
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// connect resolves the server URL (flag over config file over default) and
// builds the API client.
func connect(serverFlag, configFlag string) (*client.Client, *cli.Config, error) {
	configPath := configFlag
	if configPath == "" {
		configPath = cli.DefaultConfigPath()
	}
	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	server := serverFlag
	if server == "" {
		server = cfg.Server
	}
	if server == "" {
		server = "http://localhost:8080"
	}

	api := client.New(server)
	if cfg.APIKey != "" {
		api = api.WithAPIKey(cfg.APIKey)
	}
	return api, cfg, nil
}

func newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func runDashboard(params *DashboardParams) error {
	api, cfg, err := connect(params.Server, params.Config)
	if err != nil {
		return err
	}

	limit := params.Limit
	if limit == 0 {
		limit = cfg.Limit
	}

	ctx, cancel := newContext()
	defer cancel()

	board, err := cli.LoadDashboard(ctx, api, os.Stderr, params.Select, limit)
	if err != nil {
		return err
	}

	if params.Export != "" {
		if err := cli.ExportXLSX(params.Export, board.Subscriptions); err != nil {
			return err
		}
		fmt.Printf("Exported %d subscriptions to %s\n", len(board.Subscriptions), params.Export)
	}

	if params.JSON {
		return board.PrintJSON(os.Stdout)
	}
	board.Print(os.Stdout)
	return nil
}

func runAdd(params *AddParams) error {
	api, _, err := connect(params.Server, params.Config)
	if err != nil {
		return err
	}

	req := client.CreateRequest{
		Name:         params.Name,
		Cost:         params.Cost,
		BillingCycle: params.Cycle,
		StartDate:    params.Start,
	}
	if params.AnnualOption > 0 {
		v := params.AnnualOption
		req.AnnualCostOption = &v
	}

	ctx, cancel := newContext()
	defer cancel()
	return cli.AddSubscription(ctx, api, os.Stdout, os.Stderr, req)
}

func runUpdatePrice(params *UpdatePriceParams) error {
	api, _, err := connect(params.Server, params.Config)
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()
	return cli.ChangePrice(ctx, api, os.Stdout, os.Stderr, params.ID, params.Cost, params.Cycle)
}

func runDelete(params *DeleteParams) error {
	api, _, err := connect(params.Server, params.Config)
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()
	return cli.RemoveSubscription(ctx, api, os.Stdin, os.Stdout, os.Stderr, params.ID, params.Yes)
}

func runHistory(params *HistoryParams) error {
	api, _, err := connect(params.Server, params.Config)
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()
	return cli.PrintHistory(ctx, api, os.Stdout, params.ID)
}
