package common

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDirectory creates the directory (and parents) if it does not exist.
func EnsureDirectory(path string, perm fs.FileMode) error {
	if path == "" || path == "." {
		return nil
	}
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return NewError("path exists but is not a directory: %s", path)
	}
	if !os.IsNotExist(err) {
		return WrapErrorf(err, "failed to stat directory %s", path)
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return WrapErrorf(err, "failed to create directory %s", path)
	}
	return nil
}

// WriteFileWithDirs writes data to path, creating parent directories first.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	if err := EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return WrapErrorf(err, "failed to write file %s", path)
	}
	return nil
}
