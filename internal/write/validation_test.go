package write

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUnchanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	before, err := f.Stat()
	require.NoError(t, err)

	t.Run("non-strict ignores mismatch", func(t *testing.T) {
		assert.NoError(t, CheckUnchanged(f, "data.bin", before, 3, false))
	})

	t.Run("strict accepts unchanged file", func(t *testing.T) {
		assert.NoError(t, CheckUnchanged(f, "data.bin", before, 5, true))
	})

	t.Run("strict rejects short read", func(t *testing.T) {
		err := CheckUnchanged(f, "data.bin", before, 3, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read 3 bytes, expected 5")
	})
}

func TestCheckUnchangedDetectsModification(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	before, err := f.Stat()
	require.NoError(t, err)

	later := before.ModTime().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	err = CheckUnchanged(f, "data.bin", before, 5, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata changed")
}
