package browser

import (
	"fmt"
	"maps"
	"slices"
)

// LaunchOptions is the resolved set of startup flags and preferences
// handed to a Backend. Only Assemble produces it.
type LaunchOptions struct {
	Backend BackendKind

	// ExecPath overrides the browser binary. Empty means the backend default.
	ExecPath string

	Headless bool

	// Flags are command-line switches without the leading "--".
	// A true bool renders as a bare switch.
	Flags map[string]any

	// Prefs are browser profile preferences.
	Prefs map[string]any

	WindowSize  WindowSize
	PageLoad    PageLoadStrategy
	DownloadDir string
}

// Assemble derives backend launch options from cfg. It is pure: no
// filesystem or process access. location is the alternate binary and
// is required when kind is BackendAlternate.
func Assemble(cfg Config, kind BackendKind, location string) (LaunchOptions, error) {
	if err := cfg.Validate(); err != nil {
		return LaunchOptions{}, err
	}

	opts := LaunchOptions{
		Backend: kind,
		Flags:   make(map[string]any),
		Prefs:   make(map[string]any),
	}

	switch kind {
	case BackendPrimary:
	case BackendAlternate:
		if location == "" {
			return LaunchOptions{}, fmt.Errorf("%w: no %s browser location", ErrBackendUnavailable, kind)
		}
		opts.ExecPath = location
	default:
		return LaunchOptions{}, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}

	if cfg.Headless {
		opts.Headless = true
		opts.Flags[flagHeadless] = "new"
	}

	opts.DownloadDir = cfg.DownloadFolder
	opts.Prefs[prefDownloadDir] = cfg.DownloadFolder
	opts.Prefs[prefDownloadPrompt] = false

	opts.WindowSize = cfg.WindowSize
	opts.Flags[flagWindowSize] = fmt.Sprintf("%d,%d", cfg.WindowSize.Width, cfg.WindowSize.Height)
	opts.Flags[flagStartMaximized] = true

	opts.PageLoad = cfg.PageLoadStrategy
	if opts.PageLoad == "" {
		opts.PageLoad = PageLoadNone
	}

	return opts, nil
}

// Args renders Flags as sorted command-line arguments, skipping any
// name in exclude.
func (o LaunchOptions) Args(exclude ...string) []string {
	var args []string
	for _, name := range slices.Sorted(maps.Keys(o.Flags)) {
		if slices.Contains(exclude, name) {
			continue
		}
		switch v := o.Flags[name].(type) {
		case bool:
			if v {
				args = append(args, "--"+name)
			}
		default:
			args = append(args, fmt.Sprintf("--%s=%v", name, v))
		}
	}
	return args
}
