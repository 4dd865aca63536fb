package browser

import "context"

// Driver is the live handle to a running, controllable browser.
type Driver interface {
	// Navigate loads url, blocking as long as the page load strategy asks.
	Navigate(ctx context.Context, url string) error

	// Clickable reports whether loc is present, visible and enabled.
	// It must not wait for the element to appear, and must return once
	// ctx is done.
	Clickable(ctx context.Context, loc Locator) (bool, error)

	// Click clicks the element identified by loc.
	Click(ctx context.Context, loc Locator) error

	// SetDownloadDir routes downloads into dir without prompting.
	SetDownloadDir(ctx context.Context, dir string) error

	// Quit terminates the browser process.
	Quit() error
}

// Backend launches drivers of one kind.
type Backend interface {
	Kind() BackendKind
	Launch(ctx context.Context, opts LaunchOptions) (Driver, error)
}

func defaultBackends() map[BackendKind]Backend {
	return map[BackendKind]Backend{
		BackendPrimary:   NewChromedpBackend(),
		BackendAlternate: NewPlaywrightBackend(),
	}
}
