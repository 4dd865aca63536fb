package browser

import "errors"

var (
	// ErrInvalidPath is returned for an empty or unresolvable download path.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPathKind is returned when the download path exists but is not a directory.
	ErrInvalidPathKind = errors.New("path exists but is not a directory")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid session config")

	// ErrNotConfigured is returned by Build when Configure was never called.
	ErrNotConfigured = errors.New("builder not configured")

	// ErrUnknownBackend is returned for a BackendKind outside the supported set.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrBackendUnavailable is returned when the alternate backend was requested but not found.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrDriverLaunchFailed wraps any failure to start the browser process.
	ErrDriverLaunchFailed = errors.New("driver launch failed")

	// ErrElementNotReady is returned when a wait times out.
	ErrElementNotReady = errors.New("element not ready")

	// ErrActionFailed is returned when an action fails after the element was ready.
	ErrActionFailed = errors.New("action failed")

	// ErrNotInitialized is returned when a Waiter has no driver bound.
	ErrNotInitialized = errors.New("waiter not initialized")

	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("session is closed")
)
