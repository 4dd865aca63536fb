// Package browser builds ready-to-use browser automation sessions.
// A Builder turns a Config into a running driver (chromedp for the
// primary Chrome backend, playwright for the alternate Brave backend)
// plus a Waiter for synchronizing on page elements.
package browser

import "time"

// Session defaults
const (
	// DefaultWidth and DefaultHeight are the default window geometry.
	DefaultWidth  = 1920
	DefaultHeight = 1080

	// DefaultWaitTimeout bounds element waits when the caller gives none.
	DefaultWaitTimeout = 10 * time.Second

	// DefaultPollInterval is how often a Waiter re-checks an element.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultActionTimeout bounds a single click once the element is ready.
	DefaultActionTimeout = 5 * time.Second
)

// Launch flag and preference names shared by both backends.
const (
	flagHeadless       = "headless"
	flagWindowSize     = "window-size"
	flagStartMaximized = "start-maximized"

	prefDownloadDir    = "download.default_directory"
	prefDownloadPrompt = "download.prompt_for_download"
)
