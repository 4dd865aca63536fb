package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// Shared CLI flags (used across multiple command files)
var (
	cfgFile  string
	verbose  bool
	jsonLogs bool
)

// Flags for the open command
var (
	downloadDir      string
	headless         bool
	windowSize       string
	pageLoadStrategy string
	alternate        bool
	waitSelector     string
	clickSelector    string
	locatorBy        string
	waitTimeout      time.Duration
	waitDownload     bool
	downloadTimeout  time.Duration
)

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "websession",
		Short: "websession - configured browser sessions",
		Long: `websession launches a configured browser session (Chrome, or Brave when
requested), navigates, and synchronizes on page elements.

Settings come from the config file, then from flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <data dir>/websession.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log as JSON")

	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(initCmd())

	return rootCmd
}
