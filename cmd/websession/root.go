package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neboloop/websession/internal/browser"
	"github.com/neboloop/websession/internal/config"
	"github.com/neboloop/websession/internal/defaults"
	"github.com/neboloop/websession/internal/logging"
)

func setupLogging() error {
	level := "info"
	if verbose {
		level = "debug"
	}
	_, err := logging.Setup(logging.Options{Level: level, JSON: jsonLogs})
	return err
}

// loadConfig reads --config, or the data dir config, and applies flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var (
		c   config.Config
		err error
	)
	if cfgFile != "" {
		c, err = config.Load(cfgFile)
	} else {
		c, err = config.LoadDefault()
	}
	if err != nil {
		return c, err
	}

	flags := cmd.Flags()
	if flags.Changed("download-dir") {
		c.DownloadFolder = downloadDir
	}
	if flags.Changed("headless") {
		c.Headless = headless
	}
	if flags.Changed("window-size") {
		size, err := browser.ParseWindowSize(windowSize)
		if err != nil {
			return c, err
		}
		c.WindowSize = size
	}
	if flags.Changed("page-load-strategy") {
		strategy, err := browser.ParsePageLoadStrategy(pageLoadStrategy)
		if err != nil {
			return c, err
		}
		c.PageLoadStrategy = strategy
	}
	if flags.Changed("alternate") {
		c.Backend = browser.BackendPrimary
		if alternate {
			c.Backend = browser.BackendAlternate
		}
	}
	if flags.Changed("timeout") {
		c.WaitTimeout = waitTimeout
	}
	return c, nil
}

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Report whether the alternate (Brave) browser is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ok := browser.DetectAlternate(osFs())
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "alternate browser not found (looked in %s)\n", browser.AlternateInstallPath())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alternate browser: %s\n", path)
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file and create the download folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := defaults.EnsureDataDir()
			if err != nil {
				return err
			}
			if force {
				if err := defaults.Reset(l); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\ndownloads: %s\n", l.ConfigPath(), l.DownloadDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := SetupRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
