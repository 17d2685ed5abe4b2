package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/versync/pkg/fileutil"
)

func TestWriteAtomicCreatesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "example.toml")

	err := fileutil.WriteAtomic(path, []byte("version = \"1.0.0\"\n"), 0o600)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "version = \"1.0.0\"\n", string(got))
}

func TestWriteAtomicReplacesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "example.toml")

	err := os.WriteFile(path, []byte("old content\n"), 0o644)
	require.NoError(t, err)

	err = fileutil.WriteAtomic(path, []byte("new content\n"), 0o644)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new content\n", string(got))
}

func TestWriteAtomicLeavesNoTemporaryFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "example.toml")

	err := fileutil.WriteAtomic(path, []byte("data\n"), 0o644)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "example.toml", entries[0].Name())
}

func TestWriteAtomicPreservesMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "example.toml")

	err := fileutil.WriteAtomic(path, []byte("data\n"), 0o600)
	require.NoError(t, err)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "example.toml")

	err := fileutil.WriteAtomic(path, []byte("data\n"), 0o644)
	require.Error(t, err)
}
