package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/chart"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/report"
	"github.com/cleared-dev/runway/internal/workspace"
)

func newProjectCommand(opts *rootOptions) *cobra.Command {
	var start string
	var days int
	var balance string
	var format string
	var chartPath string
	var all bool

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the daily cash balance over a horizon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workspace.ProjectRequest{Start: start, Days: days}
			if balance != "" {
				req.Balance = model.ParseAmount(balance)
				if !req.Balance.Valid {
					return fmt.Errorf("invalid --balance %q", balance)
				}
			}

			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			p, err := ws.Project(cmd.Context(), req)
			if err != nil {
				return err
			}

			if chartPath != "" {
				png, err := chart.RenderBalance(p)
				if err != nil {
					return err
				}
				if err := os.WriteFile(chartPath, png, 0o644); err != nil {
					return fmt.Errorf("writing chart: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return report.WriteProjection(out, p, report.ProjectionOptions{Currency: ws.Config.Currency, AllDays: all})
			case "csv":
				return report.WriteProjectionCSV(out, p)
			case "json":
				return report.WriteJSON(out, p)
			default:
				return fmt.Errorf("unknown --format %q (want text, csv or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&days, "days", 0, "horizon in days, 7-365 (default from config)")
	cmd.Flags().StringVar(&balance, "balance", "", "starting balance (default: sum of cash accounts)")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, csv, json)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "also write a balance chart PNG to this path")
	cmd.Flags().BoolVar(&all, "all", false, "list every day, not only days with activity")

	return cmd
}
