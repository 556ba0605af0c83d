// Package fs provides filesystem helpers for moving whole directory trees around.
package fs

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

func DirExists(dirPath string) bool {
	dir, err := os.Stat(dirPath)
	if err == nil && dir.IsDir() {
		return true
	}
	return false
}

func FileExists(filePath string) bool {
	results, err := os.Stat(filePath)
	if err == nil && !results.IsDir() {
		return true
	}
	return false
}

func EnsureExists(dirPath string) error {
	const perm = 0o755 // owner rwx, group rx, public rx
	return os.MkdirAll(dirPath, perm)
}

// EnsureFresh removes anything at dirPath and then creates it as an empty directory.
func EnsureFresh(dirPath string) error {
	if err := os.RemoveAll(dirPath); err != nil {
		return errors.Wrapf(err, "couldn't remove previous contents of %s", dirPath)
	}
	if err := EnsureExists(dirPath); err != nil {
		return errors.Wrapf(err, "couldn't create directory %s", dirPath)
	}
	return nil
}

// RemoveFile removes the file at filePath, reporting whether anything was removed. A missing file
// is not an error.
func RemoveFile(filePath string) (removed bool, err error) {
	if err = os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
