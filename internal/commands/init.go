package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/workspace"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var currency string
	var backend string
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new runway workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := workspace.Init(absDir, currency, backend)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized runway workspace at %s (%s, %s storage)\n", absDir, cfg.Currency, cfg.Storage.Backend)

			if git {
				hash, err := workspace.InitGit(absDir)
				if err != nil {
					return fmt.Errorf("enabling git snapshots: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Git snapshots enabled (%s)\n", hash)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code")
	cmd.Flags().StringVar(&backend, "backend", "file", "storage backend (file, sqlite)")
	cmd.Flags().BoolVar(&git, "git", false, "commit every change to a git repository in the workspace")

	return cmd
}
