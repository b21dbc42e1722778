package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/farhanda/snapvault/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [limit]",
	Short: "List known backups, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("limit must be a positive integer, got %q", args[0])
			}
			limit = n
		}

		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Shutdown()

		summaries, err := application.Orchestrator.List(limit)
		if err != nil {
			return err
		}

		for _, s := range summaries {
			status := "succeeded"
			if !s.Success {
				status = "failed"
			}
			fmt.Printf("%s\t%s\t%d\t%s\n",
				s.ID, s.Timestamp.Format(domain.ManifestTimeFormat), s.TotalSize, status)
		}
		return nil
	},
}
