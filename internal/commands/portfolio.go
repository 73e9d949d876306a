package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/importer"
	"github.com/cleared-dev/runway/internal/report"
	"github.com/cleared-dev/runway/internal/workspace"
)

func newPortfolioCommand(opts *rootOptions) *cobra.Command {
	portfolioCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Track holdings, cost basis and gains",
	}
	portfolioCmd.AddCommand(
		newPortfolioShowCommand(opts),
		newPortfolioImportCommand(opts),
		newPortfolioRefreshCommand(opts),
	)
	return portfolioCmd
}

func newPortfolioShowCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show positions valued at the last known prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			pf, err := ws.Portfolio(cmd.Context())
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return report.WritePortfolio(cmd.OutOrStdout(), pf, ws.Config.Currency)
			case "json":
				return report.WriteJSON(cmd.OutOrStdout(), pf)
			default:
				return fmt.Errorf("unknown --format %q (want text or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format (text, json)")
	return cmd
}

func newPortfolioImportCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import ledger transactions; without a file, ingest every CSV in import/",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if importer.DefaultRegistry().Get(format) == nil {
				return fmt.Errorf("unknown --format %q (want %s)", format, strings.Join(importer.DefaultRegistry().Formats(), ", "))
			}

			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			if len(args) == 1 {
				n, err := importFile(cmd, ws, args[0], format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transaction(s) from %s\n", n, args[0])
				return nil
			}
			return ingestDir(cmd, ws, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "CSV layout ("+strings.Join(importer.DefaultRegistry().Formats(), ", ")+")")
	return cmd
}

func importFile(cmd *cobra.Command, ws *workspace.Workspace, path, format string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ws.ImportTransactions(cmd.Context(), f, format, path)
}

// ingestDir imports each CSV in import/ and moves it to import/processed/.
// A file that fails to parse stays in place and stops the run.
func ingestDir(cmd *cobra.Command, ws *workspace.Workspace, format string) error {
	files, err := importer.Scan(ws.Root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No CSV files in import/")
		return nil
	}

	for _, fi := range files {
		n, err := importFile(cmd, ws, fi.Path, format)
		if err != nil {
			return err
		}
		if err := importer.MarkProcessed(ws.Root, fi.Name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transaction(s) from %s\n", n, fi.Name)
	}
	return nil
}

func newPortfolioRefreshCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch current prices for held assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			rep, err := ws.RefreshPrices(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated %d price(s)\n", len(rep.Updated))
			failed := make([]string, 0, len(rep.Failed))
			for key := range rep.Failed {
				failed = append(failed, key)
			}
			sort.Strings(failed)
			for _, key := range failed {
				fmt.Fprintf(out, "failed %s: %s\n", key, rep.Failed[key])
			}
			for _, key := range rep.Skipped {
				fmt.Fprintf(out, "skipped %s: no quote source\n", key)
			}
			return nil
		},
	}
}
