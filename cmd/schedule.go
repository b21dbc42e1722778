package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [cron-expression]",
	Short: "Install the periodic backup trigger and run until interrupted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Shutdown()

		spec := application.Config.Backup.Schedule
		if len(args) == 1 {
			spec = args[0]
		}

		if err := application.Orchestrator.ScheduleBackups(spec); err != nil {
			return err
		}
		application.Logger.Infof("Scheduled full backup: %s", spec)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return application.RunScheduler(ctx)
	},
}
