// Package junk finds and removes operating-system debris (Finder metadata, AppleDouble resource
// forks, and the like) from asset trees.
package junk

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// MacOSXDirName is the name of the directory macOS adds to zip files with resource forks.
const MacOSXDirName = "__MACOSX"

// DefaultFilePatterns are the doublestar patterns of junk files, matched against slash-separated
// paths relative to the root of the tree being checked.
var DefaultFilePatterns = []string{
	"**/.DS_Store",
	"**/._*",
}

// DefaultDirPatterns are the doublestar patterns of junk directories, which are removed along with
// everything inside them.
var DefaultDirPatterns = []string{
	"**/" + MacOSXDirName,
}

// A Matcher decides which paths in a tree are junk.
type Matcher struct {
	files []string
	dirs  []string
}

// DefaultMatcher returns a Matcher for the default junk patterns.
func DefaultMatcher() Matcher {
	return Matcher{
		files: DefaultFilePatterns,
		dirs:  DefaultDirPatterns,
	}
}

// NewMatcher returns a Matcher for the default junk patterns plus the extra file patterns.
func NewMatcher(extraFilePatterns ...string) (Matcher, error) {
	m := DefaultMatcher()
	m.files = append(append([]string{}, m.files...), extraFilePatterns...)
	for _, pattern := range extraFilePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return Matcher{}, errors.Errorf("invalid junk file pattern %q", pattern)
		}
	}
	return m, nil
}

// IsJunkFile checks whether the file at the slash-separated path (relative to a tree root) is junk.
func (m Matcher) IsJunkFile(relPath string) bool {
	return matchAny(m.files, relPath)
}

// IsJunkDir checks whether the directory at the slash-separated path (relative to a tree root) is
// junk.
func (m Matcher) IsJunkDir(relPath string) bool {
	return matchAny(m.dirs, relPath)
}

// IsJunk checks whether the file or directory at the slash-separated path is junk.
func (m Matcher) IsJunk(relPath string, isDir bool) bool {
	if isDir {
		return m.IsJunkDir(relPath)
	}
	return m.IsJunkFile(relPath)
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		// Patterns are validated when the Matcher is made, so the error can be ignored
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// Purging

// A Report describes the result of purging junk from a tree.
type Report struct {
	// Removed lists the slash-separated paths (relative to the tree root) which were removed.
	Removed []string
	// Failed lists the errors for paths which couldn't be checked or removed.
	Failed []error
}

// Purge removes every junk file and directory in the tree at root. Failures to read or remove any
// individual path are recorded in the report rather than stopping the purge. Purging a root which
// doesn't exist does nothing.
func Purge(root string, m Matcher) (report Report, err error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return report, nil
	}
	if err != nil {
		return report, errors.Wrapf(err, "couldn't stat %s", root)
	}
	if !info.IsDir() {
		return report, errors.Errorf("%s is not a directory", root)
	}

	err = filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			report.Failed = append(report.Failed, errors.Wrapf(err, "couldn't check %s", filePath))
			return nil
		}
		if filePath == root {
			return nil
		}
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			report.Failed = append(report.Failed, err)
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !m.IsJunkDir(rel) {
				return nil
			}
			if err := os.RemoveAll(filePath); err != nil {
				report.Failed = append(report.Failed, errors.Wrapf(err, "couldn't remove %s", rel))
			} else {
				report.Removed = append(report.Removed, rel)
			}
			return fs.SkipDir
		}
		if !m.IsJunkFile(rel) {
			return nil
		}
		if err := os.Remove(filePath); err != nil {
			report.Failed = append(report.Failed, errors.Wrapf(err, "couldn't remove %s", rel))
			return nil
		}
		report.Removed = append(report.Removed, rel)
		return nil
	})
	return report, err
}
