// Copyright 2017-2018 The Argo Authors
// Modifications Copyright 2024-2025 Jacob Colvin
// Licensed under the Apache License, Version 2.0

package pathutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/versync/pkg/pathutil"
)

// linkFixtures creates a plain file `foo` and the symlink chain
// bam -> baz -> bar -> foo under a temporary directory.
func linkFixtures(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo"), []byte("foo\n"), 0o644))
	require.NoError(t, os.Symlink("foo", filepath.Join(dir, "bar")))
	require.NoError(t, os.Symlink("bar", filepath.Join(dir, "baz")))
	require.NoError(t, os.Symlink("baz", filepath.Join(dir, "bam")))

	return dir
}

func TestResolveSymbolicLinkRecursive(t *testing.T) {
	t.Parallel()

	dir := linkFixtures(t)

	t.Run("resolve non-symlink", func(t *testing.T) {
		t.Parallel()

		r, err := pathutil.ResolveSymbolicLinkRecursive(filepath.Join(dir, "foo"), 2)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "foo"), r)
	})

	t.Run("successfully resolve symlink", func(t *testing.T) {
		t.Parallel()

		r, err := pathutil.ResolveSymbolicLinkRecursive(filepath.Join(dir, "bar"), 2)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "foo"), r)
	})

	t.Run("do not allow symlink at all", func(t *testing.T) {
		t.Parallel()

		r, err := pathutil.ResolveSymbolicLinkRecursive(filepath.Join(dir, "bar"), 0)
		require.ErrorIs(t, err, pathutil.ErrMaxNestingLevelReached)
		assert.Empty(t, r)
	})

	t.Run("error because too nested symlink", func(t *testing.T) {
		t.Parallel()

		r, err := pathutil.ResolveSymbolicLinkRecursive(filepath.Join(dir, "bam"), 2)
		require.ErrorIs(t, err, pathutil.ErrMaxNestingLevelReached)
		assert.Empty(t, r)
	})

	t.Run("no such file or directory", func(t *testing.T) {
		t.Parallel()

		r, err := pathutil.ResolveSymbolicLinkRecursive(filepath.Join(dir, "foobar"), 2)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "foobar"), r)
	})
}

func TestResolveFilePath(t *testing.T) {
	t.Parallel()

	t.Run("relative file inside root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		r, err := pathutil.ResolveFilePath(dir, dir, "sub/Cargo.toml")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "sub", "Cargo.toml"), r.String())
	})

	t.Run("absolute file is joined with root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		r, err := pathutil.ResolveFilePath(filepath.Join(dir, "sub"), dir, "/Cargo.toml")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Cargo.toml"), r.String())
	})

	t.Run("relative file in subdirectory of current path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		r, err := pathutil.ResolveFilePath(filepath.Join(dir, "sub"), dir, "../Cargo.toml")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Cargo.toml"), r.String())
	})

	t.Run("file escaping the root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		r, err := pathutil.ResolveFilePath(dir, dir, "../escape.toml")
		require.ErrorIs(t, err, pathutil.ErrResolvedOutsideRoot)
		assert.Empty(t, r.String())
	})

	t.Run("symlink escaping the root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		outside := t.TempDir()

		require.NoError(t, os.WriteFile(filepath.Join(outside, "target.toml"), []byte("x\n"), 0o644))
		require.NoError(t, os.Symlink(filepath.Join(outside, "target.toml"), filepath.Join(dir, "link.toml")))

		r, err := pathutil.ResolveFilePath(dir, dir, "link.toml")
		require.ErrorIs(t, err, pathutil.ErrResolvedOutsideRoot)
		assert.Empty(t, r.String())
	})

	t.Run("symlink inside the root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		require.NoError(t, os.WriteFile(filepath.Join(dir, "target.toml"), []byte("x\n"), 0o644))
		require.NoError(t, os.Symlink("target.toml", filepath.Join(dir, "link.toml")))

		r, err := pathutil.ResolveFilePath(dir, dir, "link.toml")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "target.toml"), r.String())
	})

	t.Run("file resolving to the root itself", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		r, err := pathutil.ResolveFilePath(dir, dir, ".")
		require.ErrorIs(t, err, pathutil.ErrResolvedToRoot)
		assert.Empty(t, r.String())
	})
}
