package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/playwright-community/playwright-go"
)

var (
	// Driver install is shared by every launch in the process.
	pwInstallOnce sync.Once
	pwInstallErr  error
)

func pwRunOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		SkipInstallBrowsers: true,
		Verbose:             false,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}
}

func installPlaywright() error {
	pwInstallOnce.Do(func() {
		if err := playwright.Install(pwRunOptions()); err != nil {
			pwInstallErr = fmt.Errorf("failed to install playwright driver: %w", err)
		}
	})
	return pwInstallErr
}

// PlaywrightBackend launches a Chromium-family binary (Brave) through
// the playwright driver. Browsers are never downloaded: the binary
// comes from LaunchOptions.ExecPath.
type PlaywrightBackend struct{}

// NewPlaywrightBackend returns the alternate backend.
func NewPlaywrightBackend() *PlaywrightBackend {
	return &PlaywrightBackend{}
}

// Kind implements Backend.
func (b *PlaywrightBackend) Kind() BackendKind { return BackendAlternate }

// Launch starts the playwright driver and the browser, then opens one page.
func (b *PlaywrightBackend) Launch(ctx context.Context, opts LaunchOptions) (Driver, error) {
	if opts.ExecPath == "" {
		return nil, fmt.Errorf("%w: no executable path", ErrBackendUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := installPlaywright(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run(pwRunOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	br, err := pw.Chromium.Launch(launchOptions(opts))
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.ExecPath, err)
	}

	bctx, err := br.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
		// Follow the window size from the launch flags.
		NoViewport: playwright.Bool(true),
	})
	if err != nil {
		_ = br.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	pg, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = br.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	d := &playwrightDriver{
		pw:          pw,
		browser:     br,
		context:     bctx,
		page:        pg,
		pageLoad:    opts.PageLoad,
		downloadDir: opts.DownloadDir,
		logger:      slog.Default().With("component", "browser", "backend", BackendAlternate.String()),
	}
	pg.OnDownload(d.saveDownload)
	return d, nil
}

func launchOptions(opts LaunchOptions) playwright.BrowserTypeLaunchOptions {
	launchOpts := playwright.BrowserTypeLaunchOptions{
		ExecutablePath: playwright.String(opts.ExecPath),
		Headless:       playwright.Bool(opts.Headless),
		// playwright owns the headless switch.
		Args: opts.Args(flagHeadless),
	}
	if opts.DownloadDir != "" {
		launchOpts.DownloadsPath = playwright.String(opts.DownloadDir)
	}
	return launchOpts
}

// waitUntil maps a page load strategy to the navigation event Goto waits for.
func waitUntil(strategy PageLoadStrategy) *playwright.WaitUntilState {
	switch strategy {
	case PageLoadNormal:
		return playwright.WaitUntilStateLoad
	case PageLoadEager:
		return playwright.WaitUntilStateDomcontentloaded
	default:
		return playwright.WaitUntilStateCommit
	}
}

type playwrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	pageLoad PageLoadStrategy
	logger   *slog.Logger

	mu          sync.RWMutex
	downloadDir string
}

func (d *playwrightDriver) saveDownload(dl playwright.Download) {
	d.mu.RLock()
	dir := d.downloadDir
	d.mu.RUnlock()
	if dir == "" {
		return
	}

	dest := filepath.Join(dir, filepath.Base(dl.SuggestedFilename()))
	if err := saveAtomic(dest, dl.SaveAs); err != nil {
		d.logger.Warn("download failed", "file", dest, "error", err)
		return
	}
	d.logger.Info("download saved", "file", dest)
}

// saveAtomic writes through save into a ".part" sibling and renames it
// to dest, so download watchers only ever see the finished file.
func saveAtomic(dest string, save func(path string) error) error {
	partial := dest + ".part"
	if err := save(partial); err != nil {
		_ = os.Remove(partial)
		return err
	}
	if err := os.Rename(partial, dest); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

func (d *playwrightDriver) Navigate(ctx context.Context, url string) error {
	gotoOpts := playwright.PageGotoOptions{WaitUntil: waitUntil(d.pageLoad)}
	if ms, ok := timeoutMillis(ctx); ok {
		gotoOpts.Timeout = playwright.Float(ms)
	}
	if _, err := d.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (d *playwrightDriver) locator(loc Locator) (playwright.Locator, error) {
	kind, expr, err := loc.selector()
	if err != nil {
		return nil, err
	}
	engine := "css="
	if kind == selectorXPath {
		engine = "xpath="
	}
	return d.page.Locator(engine + expr).First(), nil
}

func (d *playwrightDriver) Clickable(ctx context.Context, loc Locator) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l, err := d.locator(loc)
	if err != nil {
		return false, err
	}

	n, err := l.Count()
	if err != nil || n == 0 {
		return false, err
	}
	visible, err := l.IsVisible()
	if err != nil || !visible {
		return false, err
	}
	timeout := float64(DefaultPollInterval.Milliseconds())
	if ms, ok := timeoutMillis(ctx); ok {
		timeout = min(timeout, ms)
	}
	return l.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: playwright.Float(timeout)})
}

func (d *playwrightDriver) Click(ctx context.Context, loc Locator) error {
	l, err := d.locator(loc)
	if err != nil {
		return err
	}
	clickOpts := playwright.LocatorClickOptions{}
	if ms, ok := timeoutMillis(ctx); ok {
		clickOpts.Timeout = playwright.Float(ms)
	}
	return l.Click(clickOpts)
}

// SetDownloadDir changes where saveDownload writes files.
func (d *playwrightDriver) SetDownloadDir(_ context.Context, dir string) error {
	d.mu.Lock()
	d.downloadDir = dir
	d.mu.Unlock()
	return nil
}

func (d *playwrightDriver) Quit() error {
	var errs []error
	if err := d.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// timeoutMillis converts the ctx deadline into a playwright timeout.
// playwright treats 0 as "no timeout", so an expired deadline maps to 1ms.
func timeoutMillis(ctx context.Context) (float64, bool) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	ms := float64(deadline.Sub(timeNow()).Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return ms, true
}
