package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/farhanda/snapvault/internal/usecase"
)

var (
	restoreComponents []string
	restoreConfirm    bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Verify and restore a backup by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Shutdown()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		result, err := application.Orchestrator.Restore(ctx, args[0], usecase.RestoreOptions{
			Components:   restoreComponents,
			ConfirmFiles: restoreConfirm,
		})
		if err != nil {
			return err
		}

		printJSON(result)

		if !result.Success {
			application.Shutdown()
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringSliceVar(&restoreComponents, "components", nil,
		"components to restore (database,files,config); default all")
	restoreCmd.Flags().BoolVarP(&restoreConfirm, "yes", "y", false,
		"confirm overwriting the application tree when restoring files")
}
