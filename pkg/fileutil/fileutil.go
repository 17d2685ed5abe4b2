// Package fileutil provides helpers for safely writing files.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteAtomic writes data to path with the given permissions. The data is
// staged in a uniquely named temporary file in the same directory and renamed
// over the destination, so the destination is either fully replaced or left
// untouched.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("failed to generate uuid: %w", err)
	}

	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+newUUID.String())

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = f.Write(data)
	if err == nil {
		// Written data must reach disk before the rename publishes it.
		err = f.Sync()
	}
	if err == nil {
		err = f.Chmod(perm)
	}

	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write temporary file %q: %w", tmpPath, err)
	}

	err = os.Rename(tmpPath, path)
	if err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to replace %q: %w", path, err)
	}

	return nil
}
