package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/scheduler"
)

func watchCmd() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch [route]",
		Short: "Re-run the audit on a cron schedule until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = cfg.Watch.Schedule
			}
			if schedule == "" {
				return fmt.Errorf("no watch schedule configured (set watch.schedule or pass --schedule)")
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			route := routeArg(args)
			logger := common.GetLogger().WithPrefix("watch")

			sched, err := scheduler.New(schedule, func(ctx context.Context) {
				summary, err := runAudit(ctx, app, route)
				if err != nil {
					logger.Error().Err(err).Msg("Scheduled audit failed")
					return
				}
				logger.Info().
					Int("issues", len(summary.Issues)).
					Bool("failed", summary.Failed()).
					Msg("Scheduled audit complete")
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return sched.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule, minimum 5-minute interval (e.g. \"*/15 * * * *\")")
	return cmd
}
