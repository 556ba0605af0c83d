package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CopyDir recursively copies the directory tree at source into dest, which must not already exist.
// Regular files keep their permission bits and modification times, and symlinks are recreated
// with the same targets.
func CopyDir(source, dest string) error {
	return filepath.WalkDir(source, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, filePath)
		if err != nil {
			return errors.Wrapf(err, "couldn't determine path of %s relative to %s", filePath, source)
		}
		target := filepath.Join(dest, rel)

		info, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, "couldn't stat %s for copying", filePath)
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode()&fs.ModeSymlink != 0:
			return copySymlink(filePath, target)
		case info.Mode().IsRegular():
			return CopyFile(filePath, target, info)
		default:
			return errors.Errorf("couldn't copy %s: unsupported file type %s", filePath, info.Mode().Type())
		}
	})
}

// CopyFile copies the regular file at sourcePath to destPath, applying the permissions and
// modification time from sourceInfo.
func CopyFile(sourcePath, destPath string, sourceInfo fs.FileInfo) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "couldn't open source file %s for copying", sourcePath)
	}
	defer func() {
		if err := sourceFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: couldn't close source file %s\n", sourcePath)
		}
	}()

	destFile, err := os.OpenFile(
		destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, sourceInfo.Mode().Perm(),
	)
	if err != nil {
		return errors.Wrapf(err, "couldn't open dest file %s for copying", destPath)
	}
	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return errors.Wrapf(err, "couldn't copy %s to %s", sourcePath, destPath)
	}
	if err := destFile.Close(); err != nil {
		return errors.Wrapf(err, "couldn't finish writing %s", destPath)
	}
	modTime := sourceInfo.ModTime()
	if err := os.Chtimes(destPath, modTime, modTime); err != nil {
		return errors.Wrapf(err, "couldn't set modification time of %s", destPath)
	}
	return nil
}

func copySymlink(sourcePath, destPath string) error {
	linkTarget, err := os.Readlink(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "couldn't determine symlink target of %s", sourcePath)
	}
	return os.Symlink(linkTarget, destPath)
}
