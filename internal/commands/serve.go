package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/runway/internal/server"
	"github.com/cleared-dev/runway/internal/workspace"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			if addr == "" {
				addr = ws.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scheduler, err := startRefreshSchedule(ctx, ws)
			if err != nil {
				return err
			}
			if scheduler != nil {
				defer scheduler.Stop()
			}

			err = server.NewServer(ws).ListenAndServe(ctx, addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// startRefreshSchedule runs price refreshes on quotes.refresh_schedule.
// It returns nil when no schedule is configured.
func startRefreshSchedule(ctx context.Context, ws *workspace.Workspace) (*cron.Cron, error) {
	spec := ws.Config.Quotes.RefreshSchedule
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := ws.RefreshPrices(ctx); err != nil {
			ws.Logger.Error().Err(err).Msg("scheduled price refresh failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid quotes.refresh_schedule %q: %w", spec, err)
	}
	c.Start()
	ws.Logger.Info().Str("schedule", spec).Msg("price refresh scheduled")
	return c, nil
}
