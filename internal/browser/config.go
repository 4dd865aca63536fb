package browser

import (
	"fmt"
	"strconv"
	"strings"
)

// PageLoadStrategy controls how long navigation blocks.
type PageLoadStrategy string

const (
	// PageLoadNormal waits for the load event.
	PageLoadNormal PageLoadStrategy = "normal"

	// PageLoadEager waits until the document is interactive.
	PageLoadEager PageLoadStrategy = "eager"

	// PageLoadNone returns as soon as navigation commits.
	PageLoadNone PageLoadStrategy = "none"
)

// ParsePageLoadStrategy parses "normal", "eager" or "none".
// An empty string yields PageLoadNone.
func ParsePageLoadStrategy(s string) (PageLoadStrategy, error) {
	switch PageLoadStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PageLoadNone:
		return PageLoadNone, nil
	case PageLoadNormal:
		return PageLoadNormal, nil
	case PageLoadEager:
		return PageLoadEager, nil
	default:
		return "", fmt.Errorf("%w: unknown page load strategy %q", ErrInvalidConfig, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PageLoadStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParsePageLoadStrategy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// WindowSize is the browser window geometry in pixels.
type WindowSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// ParseWindowSize parses "WxH" or "W,H".
func ParseWindowSize(s string) (WindowSize, error) {
	sep := "x"
	if strings.Contains(s, ",") {
		sep = ","
	}
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), sep)
	if !ok {
		return WindowSize{}, fmt.Errorf("%w: window size %q, want WxH", ErrInvalidConfig, s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return WindowSize{}, fmt.Errorf("%w: window width %q", ErrInvalidConfig, w)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return WindowSize{}, fmt.Errorf("%w: window height %q", ErrInvalidConfig, h)
	}
	size := WindowSize{Width: width, Height: height}
	return size, size.validate()
}

func (w WindowSize) validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: window size %s must be positive", ErrInvalidConfig, w)
	}
	return nil
}

func (w WindowSize) String() string {
	return fmt.Sprintf("%dx%d", w.Width, w.Height)
}

// Config describes the session to build.
// Treat it as a value: the Builder keeps its own copy.
type Config struct {
	// DownloadFolder receives browser downloads. Created if missing.
	DownloadFolder string `json:"downloadFolder" yaml:"download_folder"`

	// Headless runs the browser without UI.
	Headless bool `json:"headless" yaml:"headless"`

	// WindowSize is the initial window geometry.
	WindowSize WindowSize `json:"windowSize" yaml:"window_size"`

	// PageLoadStrategy controls how long Navigate blocks.
	PageLoadStrategy PageLoadStrategy `json:"pageLoadStrategy" yaml:"page_load_strategy"`
}

// DefaultConfig returns a headless 1920x1080 config with the "none"
// page load strategy, downloading into downloadFolder.
func DefaultConfig(downloadFolder string) Config {
	return Config{
		DownloadFolder:   downloadFolder,
		Headless:         true,
		WindowSize:       WindowSize{Width: DefaultWidth, Height: DefaultHeight},
		PageLoadStrategy: PageLoadNone,
	}
}

// Validate checks everything that does not need the filesystem.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DownloadFolder) == "" {
		return fmt.Errorf("%w: download folder is required", ErrInvalidConfig)
	}
	if err := c.WindowSize.validate(); err != nil {
		return err
	}
	if _, err := ParsePageLoadStrategy(string(c.PageLoadStrategy)); err != nil {
		return err
	}
	return nil
}
