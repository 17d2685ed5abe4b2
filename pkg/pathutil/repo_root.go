package pathutil

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrRepoRootNotFound = errors.New("repository root not found")

// FindRepoRoot returns the closest (innermost) git repository root for the
// provided path by searching bottom-up from path toward the filesystem root.
// This matches the behavior of git rev-parse --show-toplevel, correctly
// resolving worktrees nested inside a parent repository. Returns
// [ErrRepoRootNotFound] if path is not inside a git repository.
func FindRepoRoot(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	for {
		if hasGitHead(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrRepoRootNotFound, path)
		}

		dir = parent
	}
}

// hasGitHead reports whether dir holds a git repository root, i.e. a `.git`
// directory (or worktree `.git` file) whose git directory contains a HEAD
// file.
func hasGitHead(dir string) bool {
	dotGit := filepath.Join(dir, ".git")

	fi, err := os.Lstat(dotGit)
	if err != nil {
		return false
	}

	gitDir := dotGit
	if !fi.IsDir() {
		gitDir, err = resolveGitFile(dotGit, dir)
		if err != nil {
			// Intentionally skip malformed .git files.
			return false
		}
	}

	hfi, err := os.Lstat(filepath.Join(gitDir, "HEAD"))

	return err == nil && !hfi.IsDir()
}

// resolveGitFile reads a `.git` file (as used in git worktrees) and resolves
// the gitdir path it points to. The file is expected to contain a single line
// in the format `gitdir: <path>`. Relative paths are resolved against
// baseDir.
func resolveGitFile(dotGitPath, baseDir string) (string, error) {
	f, err := os.Open(dotGitPath) //nolint:gosec // dotGitPath is constructed from filepath.Join, not user input.
	if err != nil {
		return "", fmt.Errorf("open git file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Best-effort close.

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty git file")
	}

	line := strings.TrimSpace(scanner.Text())

	gitDir, found := strings.CutPrefix(line, "gitdir: ")
	if !found {
		return "", errors.New("missing gitdir prefix")
	}

	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(baseDir, gitDir)
	}

	return filepath.Clean(gitDir), nil
}
