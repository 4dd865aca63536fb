package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// BackendKind identifies which browser backend drives a session.
type BackendKind int

const (
	// BackendPrimary is system Chrome/Chromium driven over CDP.
	BackendPrimary BackendKind = iota

	// BackendAlternate is Brave, found at its fixed install location.
	BackendAlternate
)

func (k BackendKind) String() string {
	switch k {
	case BackendPrimary:
		return "primary"
	case BackendAlternate:
		return "alternate"
	default:
		return fmt.Sprintf("backend(%d)", int(k))
	}
}

// ParseBackendKind parses "primary" or "alternate" ("chrome" and "brave"
// are accepted as aliases).
func ParseBackendKind(s string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "primary", "chrome":
		return BackendPrimary, nil
	case "alternate", "brave":
		return BackendAlternate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BackendKind) UnmarshalText(text []byte) error {
	parsed, err := ParseBackendKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Detector reports the alternate browser binary, if installed.
type Detector func() (path string, ok bool)

// AlternateInstallPath returns the one location checked for Brave on this platform.
func AlternateInstallPath() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Applications", "Brave Browser.app", "Contents", "MacOS", "Brave Browser")
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir(), "AppData", "Local")
		}
		return filepath.Join(localAppData, "BraveSoftware", "Brave-Browser", "Application", "brave.exe")
	default:
		return "/usr/bin/brave-browser"
	}
}

// DetectAlternate checks AlternateInstallPath on fs. Absence is not an error.
func DetectAlternate(fs afero.Fs) (string, bool) {
	path := AlternateInstallPath()
	if !fileExists(fs, path) {
		return "", false
	}
	return path, true
}

func fileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
