package bundling

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nguyenpanda/assetlift/pkg/junk"
)

// NormalizeRoot determines which directory of an extracted archive holds the top-level asset
// directories. Archives made by zipping the whole site root contain a single directory named
// rootName, in which case rootName is returned; archives made by zipping only the site root's
// contents hold the asset directories directly, in which case "." is returned. Junk entries in the
// listing are ignored.
func NormalizeRoot(entries []fs.DirEntry, rootName string, m junk.Matcher) string {
	var wrapper fs.DirEntry
	count := 0
	for _, entry := range entries {
		if m.IsJunk(entry.Name(), entry.IsDir()) {
			continue
		}
		count++
		wrapper = entry
	}
	if count == 1 && wrapper.IsDir() && wrapper.Name() == rootName {
		return rootName
	}
	return "."
}

// ResolveRoot returns the path of the directory in extractedDir which holds the top-level asset
// directories, as determined by [NormalizeRoot].
func ResolveRoot(extractedDir, rootName string, m junk.Matcher) (string, error) {
	entries, err := os.ReadDir(extractedDir)
	if err != nil {
		return "", errors.Wrapf(err, "couldn't list extracted files in %s", extractedDir)
	}
	return filepath.Join(extractedDir, NormalizeRoot(entries, rootName, m)), nil
}
