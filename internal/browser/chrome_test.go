package browser

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackendKind(t *testing.T) {
	for in, want := range map[string]BackendKind{
		"":          BackendPrimary,
		"primary":   BackendPrimary,
		"Chrome":    BackendPrimary,
		"alternate": BackendAlternate,
		" brave ":   BackendAlternate,
	} {
		got, err := ParseBackendKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBackendKind("firefox")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestBackendKindString(t *testing.T) {
	assert.Equal(t, "primary", BackendPrimary.String())
	assert.Equal(t, "alternate", BackendAlternate.String())
	assert.Equal(t, "backend(7)", BackendKind(7).String())
}

func TestDetectAlternate(t *testing.T) {
	path := AlternateInstallPath()
	require.NotEmpty(t, path)

	t.Run("absent", func(t *testing.T) {
		got, ok := DetectAlternate(afero.NewMemMapFs())
		assert.False(t, ok)
		assert.Empty(t, got)
	})

	t.Run("installed", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte{0x7f, 'E', 'L', 'F'}, 0755))

		got, ok := DetectAlternate(fs)
		assert.True(t, ok)
		assert.Equal(t, path, got)
	})

	t.Run("directory is not a binary", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(path, 0755))

		_, ok := DetectAlternate(fs)
		assert.False(t, ok)
	})

	t.Run("sibling binaries are not checked", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, filepath.Join(filepath.Dir(path), "brave"), []byte("x"), 0755))

		_, ok := DetectAlternate(fs)
		assert.False(t, ok)
	})
}
