package main

import (
	"context"
	"encoding/json"
	"fmt"
	"forklift-route-agent/internal/app"
	"forklift-route-agent/internal/config"
	"forklift-route-agent/internal/domain"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

var (
	flagConfig       string
	flagInlineCharts bool
	flagShowLogs     bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "agentctl",
		Short: "Ask the forklift routing agent what-if questions",
		Long: `agentctl interprets a natural-language scenario against the current
transport orders, solves the resulting routing problem on cuOpt and
prints the forklift routes.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.Get("AGENT_CONFIG", "configs/agent.yml"), "Agent config file")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(payloadCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func buildApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg)
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Run the full pipeline for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !flagInlineCharts {
				a.Agent.Markdown = nil
			}

			query := strings.Join(args, " ")
			fmt.Fprintf(os.Stderr, "%s %s\n", bold("Query:"), query)

			result, answer := a.Agent.Answer(ctx, query)
			fmt.Println(answer)

			if result.Charts != nil && !flagInlineCharts {
				fmt.Println(bold("Charts:"))
				if result.Charts.GanttPath != "" {
					fmt.Printf("  %s\n", cyan(result.Charts.GanttPath))
				}
				ids := make([]string, 0, len(result.Charts.NetworkPaths))
				for id := range result.Charts.NetworkPaths {
					ids = append(ids, id)
				}
				domain.SortVehicleIDs(ids)
				for _, id := range ids {
					fmt.Printf("  %s\n", cyan(result.Charts.NetworkPaths[id]))
				}
			}

			if flagShowLogs {
				for _, line := range result.Logs {
					fmt.Fprintln(os.Stderr, dim(line))
				}
			}
			for _, e := range result.Errors {
				fmt.Fprintln(os.Stderr, red("error: "+e))
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("query finished with %d error(s)", len(result.Errors))
			}
			fmt.Fprintln(os.Stderr, green("done"), dim("run="+result.RunID))
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagInlineCharts, "inline-charts", false, "Embed charts as data URIs in the answer")
	cmd.Flags().BoolVar(&flagShowLogs, "logs", false, "Print the run log to stderr")
	return cmd
}

func ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List the current transport orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			orders, err := a.Orders.ListOrders(ctx)
			if err != nil {
				return fmt.Errorf("list orders: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, bold("#\tPICKUP\tDELIVERY\tDEMAND\tPICKUP WINDOW\tPICKUP SVC\tDELIVERY WINDOW\tDELIVERY SVC"))
			for i, o := range orders {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t[%d, %d]\t%d\t[%d, %d]\t%d\n",
					i+1,
					domain.LocationName(o.PickupLocation),
					domain.LocationName(o.DeliveryLocation),
					o.OrderDemand,
					o.EarliestPickup, o.LatestPickup,
					o.PickupServiceTime,
					o.EarliestDelivery, o.LatestDelivery,
					o.DeliveryServiceTime,
				)
			}
			return w.Flush()
		},
	}
}

func payloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payload <query>",
		Short: "Print the solver payload a query would submit, without solving",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			problem, err := a.Agent.Payload(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(problem)
		},
	}
}
