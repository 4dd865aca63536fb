package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// BuildState is the builder's progress through a build.
type BuildState int

const (
	StateUnconfigured BuildState = iota
	StateConfigured
	StateOptionsAssembled
	StateDriverCreated
)

func (s BuildState) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateOptionsAssembled:
		return "options-assembled"
	case StateDriverCreated:
		return "driver-created"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Builder turns a Config into a running Session. Configure and
// UseAlternate only take effect before the first successful Build;
// changing a built session means building a new one.
// A Builder is not safe for concurrent use.
type Builder struct {
	cfg       Config
	alternate bool
	state     BuildState
	built     bool

	fs           afero.Fs
	detect       Detector
	backends     map[BackendKind]Backend
	logger       *slog.Logger
	waitTimeout  time.Duration
	pollInterval time.Duration
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithFs sets the filesystem used for the download directory and detection.
func WithFs(fs afero.Fs) BuilderOption {
	return func(b *Builder) { b.fs = fs }
}

// WithDetector replaces alternate backend detection.
func WithDetector(d Detector) BuilderOption {
	return func(b *Builder) { b.detect = d }
}

// WithBackend replaces the backend for backend.Kind().
func WithBackend(backend Backend) BuilderOption {
	return func(b *Builder) { b.backends[backend.Kind()] = backend }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithWaitTimeout sets the Waiter default timeout.
func WithWaitTimeout(d time.Duration) BuilderOption {
	return func(b *Builder) { b.waitTimeout = d }
}

// WithPollInterval sets how often the Waiter polls.
func WithPollInterval(d time.Duration) BuilderOption {
	return func(b *Builder) { b.pollInterval = d }
}

// NewBuilder creates an unconfigured builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		fs:           afero.NewOsFs(),
		backends:     defaultBackends(),
		logger:       slog.Default(),
		waitTimeout:  DefaultWaitTimeout,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.detect == nil {
		fs := b.fs
		b.detect = func() (string, bool) { return DetectAlternate(fs) }
	}
	b.logger = b.logger.With("component", "browser")
	return b
}

// Configure stores cfg. Before the first build the last call wins.
func (b *Builder) Configure(cfg Config) *Builder {
	if b.built {
		b.logger.Warn("configure after build ignored; create a new builder")
		return b
	}
	b.cfg = cfg
	b.state = StateConfigured
	return b
}

// UseAlternate requests the alternate backend. Build fails with
// ErrBackendUnavailable rather than falling back to the primary one.
func (b *Builder) UseAlternate() *Builder {
	if b.built {
		b.logger.Warn("backend selection after build ignored")
		return b
	}
	b.alternate = true
	return b
}

// Config returns the stored config. After Build the download folder is
// the resolved absolute path.
func (b *Builder) Config() Config { return b.cfg }

// State returns how far the last build progressed.
func (b *Builder) State() BuildState { return b.state }

// Build launches a new browser and returns its Session. Every call
// starts an independent process; the caller must Close each one.
func (b *Builder) Build(ctx context.Context) (*Session, error) {
	if b.state == StateUnconfigured {
		return nil, ErrNotConfigured
	}
	b.state = StateConfigured

	dir, err := EnsureDir(b.fs, b.cfg.DownloadFolder)
	if err != nil {
		return nil, err
	}
	b.cfg.DownloadFolder = dir

	kind := BackendPrimary
	var location string
	if b.alternate {
		kind = BackendAlternate
		path, ok := b.detect()
		if !ok {
			return nil, fmt.Errorf("%w: %s browser not found at %s", ErrBackendUnavailable, kind, AlternateInstallPath())
		}
		location = path
		b.logger.Info("alternate browser detected", "path", location)
	}

	opts, err := Assemble(b.cfg, kind, location)
	if err != nil {
		return nil, err
	}
	b.state = StateOptionsAssembled

	backend, ok := b.backends[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no provider for %s", ErrUnknownBackend, kind)
	}

	id := uuid.New().String()[:8]
	logger := b.logger.With("session", id, "backend", kind.String())

	start := time.Now()
	raw, err := backend.Launch(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDriverLaunchFailed, kind, err)
	}
	driver := newLoggedDriver(raw, logger)
	b.state = StateDriverCreated

	if err := driver.SetDownloadDir(ctx, opts.DownloadDir); err != nil {
		// The process is already running; do not leak it.
		quitErr := driver.Quit()
		b.state = StateOptionsAssembled
		return nil, errors.Join(fmt.Errorf("failed to set download directory: %w", err), quitErr)
	}

	waiter := NewWaiter(driver, b.waitTimeout, b.pollInterval)
	b.built = true

	logger.Info("session started",
		"headless", opts.Headless,
		"window", opts.WindowSize.String(),
		"page_load", string(opts.PageLoad),
		"downloads", opts.DownloadDir,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return newSession(id, opts, driver, waiter, logger), nil
}

// With builds a session, runs fn with it and always closes it, also
// when fn returns an error or panics.
func (b *Builder) With(ctx context.Context, fn func(*Session) error) (err error) {
	s, err := b.Build(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(s)
}
