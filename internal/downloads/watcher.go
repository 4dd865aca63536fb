// Package downloads watches a browser download directory for finished files.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// partialSuffixes mark files a browser is still writing.
var partialSuffixes = []string{".crdownload", ".part", ".tmp", ".download"}

// ErrWatcherClosed is returned by Wait after Close.
var ErrWatcherClosed = errors.New("download watcher closed")

// IsPartial reports whether name looks like an in-progress download or a
// hidden file.
func IsPartial(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return true
	}
	lower := strings.ToLower(base)
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Watcher reports files that finish downloading into one directory.
// Files present when the watcher is created, and files already
// returned by Wait, are not reported again.
type Watcher struct {
	dir  string
	fsw  *fsnotify.Watcher
	seen map[string]struct{}
}

// NewWatcher starts watching dir. Arm it before triggering the download.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	seen, err := listFiles(dir)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch download dir: %w", err)
	}
	return &Watcher{dir: dir, fsw: fsw, seen: seen}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Wait blocks until a new finished file accepted by match appears and
// returns its path. A nil match accepts any file.
func (w *Watcher) Wait(ctx context.Context, match func(name string) bool) (string, error) {
	if match == nil {
		match = func(string) bool { return true }
	}

	accept := func(path string) bool {
		name := filepath.Base(path)
		if _, seen := w.seen[name]; seen || IsPartial(name) || !match(name) {
			return false
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
		w.seen[name] = struct{}{}
		return true
	}

	// Catch files that landed before this call.
	current, err := listFiles(w.dir)
	if err != nil {
		return "", err
	}
	for name := range current {
		if path := filepath.Join(w.dir, name); accept(path) {
			return path, nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return "", ErrWatcherClosed
			}
			// Browsers write a partial file, then rename it to the final name.
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if accept(event.Name) {
				return event.Name, nil
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return "", ErrWatcherClosed
			}
			return "", fmt.Errorf("watch download dir: %w", err)
		}
	}
}

// Wait watches dir until one new finished file accepted by match
// appears. Use NewWatcher when the download is triggered after this
// call would start.
func Wait(ctx context.Context, dir string, match func(name string) bool) (string, error) {
	w, err := NewWatcher(dir)
	if err != nil {
		return "", err
	}
	defer w.Close()
	return w.Wait(ctx, match)
}

func listFiles(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read download dir: %w", err)
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}
	return names, nil
}
