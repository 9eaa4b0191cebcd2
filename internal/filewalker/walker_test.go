package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(".class LA;\n"), 0o644))
}

func paths(entries []FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestRoots_StopsAtFirstMissingSibling(t *testing.T) {
	project := t.TempDir()
	for _, dir := range []string{"smali", "smali_classes2", "smali_classes3", "smali_classes5"} {
		require.NoError(t, os.MkdirAll(filepath.Join(project, dir), 0o755))
	}

	roots := NewWalker().Roots(project)
	assert.Equal(t, []string{
		filepath.Join(project, "smali"),
		filepath.Join(project, "smali_classes2"),
		filepath.Join(project, "smali_classes3"),
	}, roots)
}

func TestRoots_MissingPrimaryStillProbesSiblings(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "smali_classes2"), 0o755))

	roots := NewWalker().Roots(project)
	assert.Equal(t, []string{filepath.Join(project, "smali_classes2")}, roots)
}

func TestRoots_FileNamedLikeSiblingIsNotARoot(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "smali"), 0o755))
	touch(t, filepath.Join(project, "smali_classes2"))

	roots := NewWalker().Roots(project)
	assert.Equal(t, []string{filepath.Join(project, "smali")}, roots)
}

func TestRoots_EmptyProject(t *testing.T) {
	assert.Empty(t, NewWalker().Roots(t.TempDir()))
}

func TestWalk_FindsAllRegularFilesRecursively(t *testing.T) {
	root := filepath.Join(t.TempDir(), "smali")
	touch(t, filepath.Join(root, "com", "example", "Main.smali"))
	touch(t, filepath.Join(root, "com", "example", "R$string.smali"))
	touch(t, filepath.Join(root, "a", "notes.txt"))

	entries, err := NewWalker().Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "notes.txt"),
		filepath.Join(root, "com", "example", "Main.smali"),
		filepath.Join(root, "com", "example", "R$string.smali"),
	}, paths(entries))
	for _, e := range entries {
		assert.Equal(t, root, e.Root)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := NewWalker().Walk(filepath.Join(t.TempDir(), "smali"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWalkProject_OrdersRoots(t *testing.T) {
	project := t.TempDir()
	touch(t, filepath.Join(project, "smali_classes2", "B.smali"))
	touch(t, filepath.Join(project, "smali", "A.smali"))
	touch(t, filepath.Join(project, "smali_classes3", "C.smali"))

	entries := NewWalker().WalkProject(project)
	assert.Equal(t, []string{
		filepath.Join(project, "smali", "A.smali"),
		filepath.Join(project, "smali_classes2", "B.smali"),
		filepath.Join(project, "smali_classes3", "C.smali"),
	}, paths(entries))
}

func TestWalkProject_RelativeProjectYieldsAbsolutePaths(t *testing.T) {
	project := t.TempDir()
	touch(t, filepath.Join(project, "smali", "A.smali"))
	chdir(t, project)

	wd, err := os.Getwd()
	require.NoError(t, err)

	entries := NewWalker().WalkProject(".")
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(wd, "smali", "A.smali"), entries[0].Path)
	assert.Equal(t, filepath.Join(wd, "smali"), entries[0].Root)
	assert.True(t, filepath.IsAbs(entries[0].Path))
}
