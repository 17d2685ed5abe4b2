// Copyright 2017-2018 The Argo Authors
// Modifications Copyright 2024-2025 Jacob Colvin
// Licensed under the Apache License, Version 2.0

package pathutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrMaxNestingLevelReached = errors.New("maximum nesting level reached")
	ErrResolvePath            = errors.New("internal error: failed to resolve path; check logs for more details")
	ErrResolvedOutsideRoot    = errors.New("file resolved to outside the root boundary")
	ErrResolvedToRoot         = errors.New("path resolved to the root boundary, which is not allowed")
)

// ResolvedFilePath represents a resolved file path and is intended to prevent
// unintentional use of an unverified file path. It is always an absolute
// path.
type ResolvedFilePath string

// String returns the resolved absolute file path as a string.
func (r ResolvedFilePath) String() string {
	return string(r)
}

// ResolveSymbolicLinkRecursive resolves the symlink path recursively to its
// canonical path on the file system, with a maximum nesting level of
// maxDepth. If path is not a symlink, returns the verbatim copy of path and
// err of nil.
func ResolveSymbolicLinkRecursive(path string, maxDepth int) (string, error) {
	resolved, err := os.Readlink(path)
	if err != nil {
		// path is not a symbolic link
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return path, nil
		}
		// Other error has occurred
		return "", fmt.Errorf("failed to read link for path '%s': %w", path, err)
	}

	if maxDepth == 0 {
		return "", ErrMaxNestingLevelReached
	}

	// If we resolved to a relative symlink, make sure we use the absolute
	// path for further resolving
	if !strings.HasPrefix(resolved, string(os.PathSeparator)) {
		basePath := filepath.Dir(path)
		resolved = filepath.Join(basePath, resolved)
	}

	return ResolveSymbolicLinkRecursive(resolved, maxDepth-1)
}

// We do not provide the path in the error message, because it will be
// returned to the user and could be used for information gathering.
// Instead, we log the concrete error details.
func resolveFailure(path string, err error) error {
	slog.Error("failed to resolve path", "path", path, "err", err)

	return fmt.Errorf("%w: %w", ErrResolvePath, err)
}

// ResolveFilePath will inspect and resolve the given file, and make sure
// that its final path is within the boundaries of the path specified in
// rootPath.
//
// currentPath is the directory we are operating in. rootPath is the boundary
// the resolved file must remain within.
//
// If either currentPath or rootPath is relative, it will be treated as
// relative to the current working directory.
//
// file is the path to a file, relative to currentPath. If file is specified
// as an absolute path (i.e. leading slash), it will be treated as relative
// to rootPath. In case file is a symlink, it will be resolved recursively
// and the decision of whether it is in the boundary of rootPath will be made
// using the final resolved path.
//
// Will return an error if file is outside the boundaries of rootPath, if
// file resolves to rootPath itself, or if file is a recursive symlink nested
// too deep. May return errors for other reasons as well.
//
// resolvedPath will hold the absolute, resolved path for file on success or
// set to the empty string on failure.
func ResolveFilePath(currentPath, rootPath, file string) (ResolvedFilePath, error) {
	path, err := resolveFile(currentPath, rootPath, file)
	if err != nil {
		return "", err
	}

	return ResolvedFilePath(path), nil
}

func resolveFile(currentPath, rootPath, file string) (string, error) {
	// Ensure that our root path is absolute
	absRootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return "", resolveFailure(rootPath, err)
	}

	// If the path to the file is relative, join it with the current working
	// directory (currentPath). Otherwise, join it with the root boundary
	path := file
	if !filepath.IsAbs(path) {
		absWorkDir, err := filepath.Abs(currentPath)
		if err != nil {
			return "", resolveFailure(rootPath, err)
		}
		path = filepath.Join(absWorkDir, path)
	} else {
		path = filepath.Join(absRootPath, path)
	}

	// Ensure any symbolic link is resolved before we evaluate the path
	delinkedPath, err := ResolveSymbolicLinkRecursive(path, 10)
	if err != nil {
		return "", resolveFailure(rootPath, err)
	}
	path = delinkedPath

	// Resolve the joined path to an absolute path
	path, err = filepath.Abs(path)
	if err != nil {
		return "", resolveFailure(rootPath, err)
	}

	// Ensure our root path has a trailing slash, otherwise the following check
	// would return true if root is /foo and path would be /foo2
	requiredRootPath := absRootPath
	if !strings.HasSuffix(requiredRootPath, string(os.PathSeparator)) {
		requiredRootPath += string(os.PathSeparator)
	}

	if path+string(os.PathSeparator) == requiredRootPath {
		return "", fmt.Errorf("%w: %s", ErrResolvedToRoot, path)
	}

	// Make sure that the resolved path to file is within the root boundary
	if !strings.HasPrefix(path, requiredRootPath) {
		return "", fmt.Errorf("%w: %s", ErrResolvedOutsideRoot, file)
	}

	return path, nil
}
