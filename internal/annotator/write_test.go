package annotator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic_KeepsModeAndContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Main.smali")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))
	require.NoError(t, os.Chmod(path, 0o751))

	require.NoError(t, writeAtomic(path, []byte("new\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o751), info.Mode().Perm())
}

func TestWriteAtomic_FailureRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Main.smali")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "nested"), 0o755))

	err := writeAtomic(target, []byte("new\n"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Main.smali", entries[0].Name())
}

func TestWriteAtomic_MissingTarget(t *testing.T) {
	err := writeAtomic(filepath.Join(t.TempDir(), "gone.smali"), []byte("x"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
