package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirCreatesParents(t *testing.T) {
	fs := afero.NewMemMapFs()

	got, err := EnsureDir(fs, "/tmp/dl/reports/2024")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dl/reports/2024", got)

	info, err := fs.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDirIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()

	first, err := EnsureDir(fs, "/tmp/dl")
	require.NoError(t, err)
	second, err := EnsureDir(fs, "/tmp/dl")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := EnsureDir(fs, "/tmp/dl/../dl/")
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestEnsureDirRejectsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/report.csv", []byte("a,b"), 0644))

	_, err := EnsureDir(fs, "/tmp/report.csv")
	assert.ErrorIs(t, err, ErrInvalidPathKind)
}

func TestEnsureDirRejectsEmpty(t *testing.T) {
	_, err := EnsureDir(afero.NewMemMapFs(), "  ")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestEnsureDirResolvesRelative(t *testing.T) {
	fs := afero.NewMemMapFs()
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := EnsureDir(fs, "downloads")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "downloads"), got)
}

func TestEnsureDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	got, err := EnsureDir(afero.NewMemMapFs(), "~/Downloads/scrape")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads", "scrape"), got)
}

func TestEnsureDirOnDisk(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureDir(afero.NewOsFs(), target)
	require.NoError(t, err)
	assert.DirExists(t, got)
}
