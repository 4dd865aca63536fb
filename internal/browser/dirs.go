package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// EnsureDir makes sure path exists as a directory, creating it and any
// missing parents, and returns its absolute form. A leading "~" is
// expanded to the user's home directory.
func EnsureDir(fs afero.Fs, path string) (string, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return "", err
	}

	info, err := fs.Stat(resolved)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrInvalidPathKind, resolved)
		}
		return resolved, nil
	case os.IsNotExist(err):
		if err := fs.MkdirAll(resolved, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", resolved, err)
		}
		return resolved, nil
	default:
		return "", fmt.Errorf("failed to stat %s: %w", resolved, err)
	}
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return abs, nil
}
