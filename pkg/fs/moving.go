package fs

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
)

// rename is swapped out in tests to simulate moves across filesystems.
var rename = os.Rename

// ReplaceDir replaces whatever exists at dest with the directory tree at source, removing source.
// The old and new trees are never merged: dest is removed before the new tree is moved into its
// place. When source and dest are on different filesystems, the tree is first copied into a
// sibling of dest so that the final step is still a rename within the destination filesystem.
func ReplaceDir(source, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return errors.Wrapf(err, "couldn't remove previous directory %s", dest)
	}
	err := rename(source, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return errors.Wrapf(err, "couldn't move %s to %s", source, dest)
	}
	return replaceDirByCopy(source, dest)
}

func replaceDirByCopy(source, dest string) error {
	incoming := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+".incoming")
	if err := os.RemoveAll(incoming); err != nil {
		return errors.Wrapf(err, "couldn't clear leftover directory %s", incoming)
	}
	if err := CopyDir(source, incoming); err != nil {
		_ = os.RemoveAll(incoming)
		return errors.Wrapf(err, "couldn't copy %s across filesystems to %s", source, incoming)
	}
	if err := os.RemoveAll(dest); err != nil {
		_ = os.RemoveAll(incoming)
		return errors.Wrapf(err, "couldn't remove previous directory %s", dest)
	}
	if err := os.Rename(incoming, dest); err != nil {
		_ = os.RemoveAll(incoming)
		return errors.Wrapf(err, "couldn't move %s into place at %s", incoming, dest)
	}
	if err := os.RemoveAll(source); err != nil {
		return errors.Wrapf(err, "couldn't remove %s after copying it to %s", source, dest)
	}
	return nil
}
