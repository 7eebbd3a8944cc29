// Package ioutils provides file system utilities for flare.
package ioutils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempName returns a collision-resistant file name under the system temp
// directory.
//
// Example:
//
//	TempName("flare_art_", ".png")
//	// "/tmp/flare_art_3f1c0b7e-8a55-4d5e-9a0b-2f4c6b1d9e21.png"
func TempName(prefix, ext string) string {
	return filepath.Join(os.TempDir(), prefix+uuid.NewString()+ext)
}

// WriteTempFile writes data to a new file named by TempName and returns its path.
//
// The file is created with mode 0600 and must not already exist.
func WriteTempFile(prefix, ext string, data []byte) (string, error) {
	path := TempName(prefix, ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// RemoveIfExists deletes path, treating a missing file as success.
//
// An empty path is a no-op.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
