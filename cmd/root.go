package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/farhanda/snapvault/internal/app"
	"github.com/farhanda/snapvault/internal/config"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          "snapvault",
		Short:        "Consistent, verifiable backups of the application database, file tree and configuration",
		SilenceUsage: true,
	}
)

// Execute runs the root command. Exit codes strictly mirror operation
// success: 0 on success, 1 on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func newApp() (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg)
}

func printJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}
