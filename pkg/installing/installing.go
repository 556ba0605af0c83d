// Package installing merges unpacked asset directories into a live site root.
package installing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
	"github.com/nguyenpanda/assetlift/pkg/junk"
	"github.com/nguyenpanda/assetlift/pkg/structures"
)

// A MoveError is returned when an unpacked directory couldn't be moved into the site root.
// Directories which were already moved before the failure stay in place.
type MoveError struct {
	Name string
	Dest string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("couldn't move directory %s into place at %s: %s", e.Name, e.Dest, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// A Result describes the changes made by [Install].
type Result struct {
	// Replaced lists the names of the top-level directories which were moved into the site root, in
	// the order they were moved.
	Replaced []string
	// Skipped lists the names of the top-level directories which weren't managed targets and were
	// left out of the site root.
	Skipped []string
	// Sanitized is the result of purging junk from the unpacked tree.
	Sanitized junk.Report
}

// Install moves each top-level directory of sourceRoot into destRoot, replacing any existing
// directory of the same name as a whole: files in the old directory never survive next to files
// from the new one. Directories of destRoot which aren't replaced are left untouched. If targets
// is non-nil, only directories named in it are installed, and others are listed as skipped.
// Top-level files in sourceRoot are ignored.
func Install(
	sourceRoot, destRoot string, targets *structures.OrderedSet[string], m junk.Matcher,
) (result Result, err error) {
	if result.Sanitized, err = junk.Purge(sourceRoot, m); err != nil {
		return result, errors.Wrapf(err, "couldn't sanitize unpacked files in %s", sourceRoot)
	}
	if err = ffs.EnsureExists(destRoot); err != nil {
		return result, errors.Wrapf(err, "couldn't ensure the existence of %s", destRoot)
	}

	entries, err := os.ReadDir(sourceRoot)
	if err != nil {
		return result, errors.Wrapf(err, "couldn't list unpacked directories in %s", sourceRoot)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if targets != nil && !targets.Has(name) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		dest := filepath.Join(destRoot, name)
		if err = ffs.ReplaceDir(filepath.Join(sourceRoot, name), dest); err != nil {
			return result, &MoveError{Name: name, Dest: dest, Err: err}
		}
		result.Replaced = append(result.Replaced, name)
	}
	return result, nil
}
