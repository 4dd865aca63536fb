// Package defaults provides the platform data directory and the embedded
// default configuration file.
//
// Platform paths:
//
//	macOS:   ~/Library/Application Support/WebSession/
//	Windows: %AppData%\WebSession\
//	Linux:   ~/.config/websession/
//
// Override with the WEBSESSION_DATA_DIR environment variable.
package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

//go:embed dotwebsession/*
var defaultFiles embed.FS

// ConfigFile is the name of the config file inside the data directory.
const ConfigFile = "websession.yaml"

// DataDir returns the platform-appropriate data directory.
func DataDir() (string, error) {
	if dir := os.Getenv("WEBSESSION_DATA_DIR"); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}

	// Linux: lowercase per XDG convention
	if runtime.GOOS == "linux" {
		return filepath.Join(configDir, "websession"), nil
	}
	return filepath.Join(configDir, "WebSession"), nil
}

// DownloadDir returns the default download folder:
// WEBSESSION_DOWNLOAD_DIR if set, otherwise ~/Downloads/websession.
func DownloadDir() (string, error) {
	if dir := os.Getenv("WEBSESSION_DOWNLOAD_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, "Downloads", "websession"), nil
}

// ConfigPath returns the path of the config file in the data directory.
func ConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

// Layout is where websession keeps its config and its downloads.
type Layout struct {
	DataDir     string
	DownloadDir string
}

// ConfigPath returns the config file inside the layout's data directory.
func (l Layout) ConfigPath() string {
	return filepath.Join(l.DataDir, ConfigFile)
}

// ResolveLayout resolves both directories without creating them.
func ResolveLayout() (Layout, error) {
	data, err := DataDir()
	if err != nil {
		return Layout{}, err
	}
	downloads, err := DownloadDir()
	if err != nil {
		return Layout{}, err
	}
	return Layout{DataDir: data, DownloadDir: downloads}, nil
}

// EnsureDataDir creates the data and download directories and writes
// the default files that are missing. The written config points at the
// resolved download directory.
func EnsureDataDir() (Layout, error) {
	l, err := ResolveLayout()
	if err != nil {
		return Layout{}, err
	}

	for _, dir := range []string{l.DataDir, l.DownloadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Layout{}, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := copyDefaults(l, false); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Reset rewrites the default files in l.DataDir.
func Reset(l Layout) error {
	return copyDefaults(l, true)
}

func copyDefaults(l Layout, overwrite bool) error {
	return fs.WalkDir(defaultFiles, "dotwebsession", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// embed.FS always uses forward slashes.
		name := strings.TrimPrefix(path, "dotwebsession/")
		dest := filepath.Join(l.DataDir, filepath.FromSlash(name))

		if !overwrite {
			if _, err := os.Stat(dest); err == nil {
				return nil
			}
		}

		data, err := defaultFiles.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", path, err)
		}
		if name == ConfigFile {
			data = pinDownloadFolder(data, l.DownloadDir)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		return nil
	})
}

// pinDownloadFolder replaces the download_folder value in a config
// template with dir. The template's ${HOME} default does not expand on
// Windows.
func pinDownloadFolder(data []byte, dir string) []byte {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "download_folder:") {
			lines[i] = "download_folder: " + strconv.Quote(dir)
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

// GetDefault returns the content of a default file by name.
// Example: GetDefault("websession.yaml")
func GetDefault(name string) ([]byte, error) {
	return defaultFiles.ReadFile("dotwebsession/" + name)
}
