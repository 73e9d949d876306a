package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/buildinfo"
	"github.com/cleared-dev/runway/internal/workspace"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dir      string
	logLevel string
}

// open resolves --dir and opens the workspace there.
func (o *rootOptions) open() (*workspace.Workspace, error) {
	absDir, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return workspace.Open(absDir, o.logLevel)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "runway",
		Short:   "Personal cash-flow projection and portfolio tracking",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to the config file")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newProjectCommand(opts),
		newEventsCommand(opts),
		newBillsCommand(opts),
		newAccountsCommand(opts),
		newPortfolioCommand(opts),
		newServeCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
