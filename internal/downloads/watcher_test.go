package downloads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestIsPartial(t *testing.T) {
	for name, want := range map[string]bool{
		"report.csv":             false,
		"report.csv.crdownload":  true,
		"Report.CSV.CRDOWNLOAD":  true,
		"archive.zip.part":       true,
		"x.tmp":                  true,
		"statement.pdf.download": true,
		".com.google.Chrome.abc": true,
		"/tmp/dl/.hidden":        true,
		"/tmp/dl/invoice.pdf":    false,
	} {
		assert.Equal(t, want, IsPartial(name), name)
	}
}

func TestWatcherRename(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	var got string
	var waitErr error
	go func() {
		defer close(done)
		got, waitErr = w.Wait(ctx, nil)
	}()

	partial := filepath.Join(dir, "export.xlsx.crdownload")
	require.NoError(t, os.WriteFile(partial, []byte("data"), 0644))
	require.NoError(t, os.Rename(partial, filepath.Join(dir, "export.xlsx")))

	<-done
	require.NoError(t, waitErr)
	assert.Equal(t, filepath.Join(dir, "export.xlsx"), got)
}

func TestWatcherIgnoresExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.csv"), []byte("x"), 0644))

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = w.Wait(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWatcherCatchesEarlyFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	// Lands between arming and waiting.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "early.pdf"), []byte("%PDF"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := w.Wait(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "early.pdf"), got)
}

func TestWatcherMatch(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := w.Wait(ctx, func(name string) bool { return strings.HasSuffix(name, ".csv") })
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), got)
}

func TestWatcherReportsEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	first, err := w.Wait(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.csv"), first)

	short, cancelShort := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancelShort()
	_, err = w.Wait(short, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWatcherClosed(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Wait(context.Background(), nil)
	assert.ErrorIs(t, err, ErrWatcherClosed)
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWaitConvenience(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Wait(ctx, t.TempDir(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
