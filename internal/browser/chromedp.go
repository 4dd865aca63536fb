package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpBackend launches Chrome over the DevTools protocol.
type ChromedpBackend struct{}

// NewChromedpBackend returns the primary backend.
func NewChromedpBackend() *ChromedpBackend {
	return &ChromedpBackend{}
}

// Kind implements Backend.
func (b *ChromedpBackend) Kind() BackendKind { return BackendPrimary }

// Launch starts a browser process. The process lives until Quit, not
// until ctx is done; ctx only bounds the startup.
func (b *ChromedpBackend) Launch(ctx context.Context, opts LaunchOptions) (Driver, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], allocatorOptions(opts)...)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	stop := context.AfterFunc(ctx, tabCancel)
	err := chromedp.Run(tabCtx)
	stop()
	if err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	d := &chromedpDriver{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		pageLoad:    opts.PageLoad,
	}
	if c := chromedp.FromContext(tabCtx); c != nil && c.Browser != nil {
		if p := c.Browser.Process(); p != nil {
			slog.Default().With("component", "browser").Debug("chrome started", "pid", p.Pid)
		}
	}
	return d, nil
}

func allocatorOptions(opts LaunchOptions) []chromedp.ExecAllocatorOption {
	flags := chromeFlags(opts)
	out := make([]chromedp.ExecAllocatorOption, 0, len(flags)+1)
	for _, name := range slices.Sorted(maps.Keys(flags)) {
		out = append(out, chromedp.Flag(name, flags[name]))
	}
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	return out
}

// chromeFlags returns the switches layered over
// chromedp.DefaultExecAllocatorOptions.
func chromeFlags(opts LaunchOptions) map[string]any {
	flags := maps.Clone(opts.Flags)
	if flags == nil {
		flags = make(map[string]any)
	}
	// DefaultExecAllocatorOptions turns headless on.
	if !opts.Headless {
		flags[flagHeadless] = false
	}
	if _, ok := flags[flagWindowSize]; !ok && opts.WindowSize.Width > 0 && opts.WindowSize.Height > 0 {
		flags[flagWindowSize] = fmt.Sprintf("%d,%d", opts.WindowSize.Width, opts.WindowSize.Height)
	}
	return flags
}

type chromedpDriver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	pageLoad    PageLoadStrategy
}

// run executes actions on the tab, bounded by the caller's ctx.
func (d *chromedpDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (d *chromedpDriver) Navigate(ctx context.Context, url string) error {
	switch d.pageLoad {
	case PageLoadNormal:
		return d.run(ctx, chromedp.Navigate(url))
	case PageLoadEager:
		return d.run(ctx, navigateNoWait(url), chromedp.WaitReady("body", chromedp.ByQuery))
	default:
		return d.run(ctx, navigateNoWait(url))
	}
}

// navigateNoWait issues Page.navigate and returns once it commits.
func navigateNoWait(url string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var res page.NavigateReturns
		if err := cdp.Execute(ctx, page.CommandNavigate, page.Navigate(url), &res); err != nil {
			return err
		}
		if res.ErrorText != "" {
			return fmt.Errorf("navigate to %s: %s", url, res.ErrorText)
		}
		return nil
	})
}

func (d *chromedpDriver) Clickable(ctx context.Context, loc Locator) (bool, error) {
	js, err := loc.clickableJS()
	if err != nil {
		return false, err
	}
	var ok bool
	if err := d.run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (d *chromedpDriver) Click(ctx context.Context, loc Locator) error {
	kind, expr, err := loc.selector()
	if err != nil {
		return err
	}
	var by chromedp.QueryOption = chromedp.ByQuery
	if kind == selectorXPath {
		by = chromedp.BySearch
	}
	return d.run(ctx, chromedp.Click(expr, by, chromedp.NodeVisible))
}

func (d *chromedpDriver) SetDownloadDir(ctx context.Context, dir string) error {
	return d.run(ctx, cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
		WithDownloadPath(dir).
		WithEventsEnabled(true))
}

// Quit closes the browser and waits for the process to exit.
func (d *chromedpDriver) Quit() error {
	err := chromedp.Cancel(d.ctx)
	d.cancel()
	d.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close chrome: %w", err)
	}
	return nil
}
