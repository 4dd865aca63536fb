package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neboloop/websession/internal/downloads"
)

// Session owns one running browser and the Waiter bound to it.
// Close must be called exactly once the session is no longer needed;
// Builder.With does that automatically.
type Session struct {
	id        string
	backend   BackendKind
	options   LaunchOptions
	driver    Driver
	waiter    *Waiter
	logger    *slog.Logger
	createdAt time.Time

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newSession(id string, opts LaunchOptions, driver Driver, waiter *Waiter, logger *slog.Logger) *Session {
	s := &Session{
		id:        id,
		backend:   opts.Backend,
		options:   opts,
		driver:    driver,
		waiter:    waiter,
		logger:    logger,
		createdAt: time.Now(),
	}
	waiter.closed = s.closed.Load
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Backend returns the backend that launched the browser.
func (s *Session) Backend() BackendKind { return s.backend }

// Options returns the launch options the browser was started with.
func (s *Session) Options() LaunchOptions { return s.options }

// DownloadDir returns the resolved download directory.
func (s *Session) DownloadDir() string { return s.options.DownloadDir }

// Driver returns the live driver handle.
func (s *Session) Driver() Driver { return s.driver }

// Waiter returns the element waiter bound to this session.
func (s *Session) Waiter() *Waiter { return s.waiter }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed.Load() }

// Navigate loads url using the configured page load strategy.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.driver.Navigate(ctx, url)
}

// WaitForDownload blocks until a finished file accepted by match lands
// in the download directory. A nil match accepts any file.
func (s *Session) WaitForDownload(ctx context.Context, match func(name string) bool) (string, error) {
	if s.closed.Load() {
		return "", ErrSessionClosed
	}
	return downloads.Wait(ctx, s.options.DownloadDir, match)
}

// WatchDownloads starts watching the download directory. Call it before
// the action that triggers a download, then Wait on the watcher.
func (s *Session) WatchDownloads() (*downloads.Watcher, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	return downloads.NewWatcher(s.options.DownloadDir)
}

// Close quits the browser. Only the first call reaches the driver;
// later calls return the same result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if err := s.driver.Quit(); err != nil {
			s.closeErr = fmt.Errorf("failed to quit %s browser: %w", s.backend, err)
		}
		s.logger.Info("session closed", "lifetime", time.Since(s.createdAt).Round(time.Millisecond))
	})
	return s.closeErr
}
