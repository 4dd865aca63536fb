package browser

import (
	"context"
	"log/slog"
	"time"
)

// loggedDriver logs every driver command. Navigation and clicks are
// logged at info level, checks at debug.
type loggedDriver struct {
	Driver
	logger *slog.Logger
}

func newLoggedDriver(d Driver, logger *slog.Logger) *loggedDriver {
	return &loggedDriver{Driver: d, logger: logger}
}

func (l *loggedDriver) Navigate(ctx context.Context, url string) error {
	start := time.Now()
	err := l.Driver.Navigate(ctx, url)
	l.log(ctx, slog.LevelInfo, "navigate", err, "url", url, "took", time.Since(start))
	return err
}

func (l *loggedDriver) Clickable(ctx context.Context, loc Locator) (bool, error) {
	ok, err := l.Driver.Clickable(ctx, loc)
	l.log(ctx, slog.LevelDebug, "clickable", err, "locator", loc.String(), "ok", ok)
	return ok, err
}

func (l *loggedDriver) Click(ctx context.Context, loc Locator) error {
	err := l.Driver.Click(ctx, loc)
	l.log(ctx, slog.LevelInfo, "click", err, "locator", loc.String())
	return err
}

func (l *loggedDriver) SetDownloadDir(ctx context.Context, dir string) error {
	err := l.Driver.SetDownloadDir(ctx, dir)
	l.log(ctx, slog.LevelInfo, "set_download_dir", err, "dir", dir)
	return err
}

func (l *loggedDriver) Quit() error {
	err := l.Driver.Quit()
	l.log(context.Background(), slog.LevelInfo, "quit", err)
	return err
}

func (l *loggedDriver) log(ctx context.Context, level slog.Level, command string, err error, attrs ...any) {
	if err != nil {
		// Failed checks are expected while waiting.
		if level > slog.LevelDebug {
			level = slog.LevelWarn
		}
		l.logger.Log(ctx, level, "driver_command_failed", append(attrs, "command", command, "error", err)...)
		return
	}
	l.logger.Log(ctx, level, "driver_command", append(attrs, "command", command)...)
}
