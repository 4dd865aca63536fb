package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/neboloop/websession/internal/browser"
	"github.com/neboloop/websession/internal/config"
	"github.com/neboloop/websession/internal/downloads"
)

func osFs() afero.Fs { return afero.NewOsFs() }

func openCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open URL",
		Short: "Open URL in a new browser session",
		Long: `Open builds a browser session, navigates to URL, and optionally waits for
an element (--wait), clicks one (--click) and waits for a download (--download).
The browser is always shut down before the command returns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runOpen(ctx, cmd, newBuilder(c), args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&downloadDir, "download-dir", "", "download folder (created if missing)")
	flags.BoolVar(&headless, "headless", true, "run without a visible window")
	flags.StringVar(&windowSize, "window-size", "1920x1080", "window size as WxH")
	flags.StringVar(&pageLoadStrategy, "page-load-strategy", "none", "normal, eager or none")
	flags.BoolVar(&alternate, "alternate", false, "use the alternate (Brave) browser")
	flags.StringVar(&waitSelector, "wait", "", "wait until this element is clickable")
	flags.StringVar(&clickSelector, "click", "", "wait for this element, then click it")
	flags.StringVar(&locatorBy, "by", "css", "locator strategy: id, name, class, tag, css, xpath, link, partial")
	flags.DurationVar(&waitTimeout, "timeout", browser.DefaultWaitTimeout, "element wait timeout")
	flags.BoolVar(&waitDownload, "download", false, "wait for a download to finish")
	flags.DurationVar(&downloadTimeout, "download-timeout", 2*time.Minute, "download wait timeout")

	return cmd
}

var newBuilder = func(c config.Config) *browser.Builder {
	b := browser.NewBuilder(browser.WithWaitTimeout(c.WaitTimeout)).Configure(c.Config)
	if c.Backend == browser.BackendAlternate {
		b.UseAlternate()
	}
	return b
}

func runOpen(ctx context.Context, cmd *cobra.Command, b *browser.Builder, url string) error {
	by, err := browser.ParseBy(locatorBy)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	return b.With(ctx, func(s *browser.Session) error {
		fmt.Fprintf(out, "session %s (%s), downloads in %s\n", s.ID(), s.Backend(), s.DownloadDir())

		if err := s.Navigate(ctx, url); err != nil {
			return err
		}
		fmt.Fprintf(out, "navigated to %s\n", url)

		if waitSelector != "" {
			if err := s.Waiter().WaitClickable(ctx, browser.Locator{By: by, Value: waitSelector}); err != nil {
				return err
			}
			fmt.Fprintf(out, "ready: %s\n", waitSelector)
		}

		var watcher *downloads.Watcher
		if waitDownload {
			if watcher, err = s.WatchDownloads(); err != nil {
				return err
			}
			defer watcher.Close()
		}

		if clickSelector != "" {
			if err := s.Waiter().WaitAndClick(ctx, browser.Locator{By: by, Value: clickSelector}); err != nil {
				return err
			}
			fmt.Fprintf(out, "clicked: %s\n", clickSelector)
		}

		if watcher != nil {
			dlCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
			defer cancel()
			path, err := watcher.Wait(dlCtx, nil)
			if err != nil {
				return fmt.Errorf("waiting for download: %w", err)
			}
			fmt.Fprintf(out, "downloaded: %s\n", path)
		}
		return nil
	})
}
