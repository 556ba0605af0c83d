// Package bundling builds and unpacks asset bundles, which are zip archives of top-level asset
// directories.
package bundling

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"

	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
	"github.com/nguyenpanda/assetlift/pkg/junk"
	"github.com/nguyenpanda/assetlift/pkg/structures"
)

// A PackResult describes a bundle produced by [Pack].
type PackResult struct {
	// ArchivePath is the path of the bundle's archive file.
	ArchivePath string
	// Files is the number of files written into the archive.
	Files int
	// Bytes is the total uncompressed size of the files written into the archive.
	Bytes int64
	// Missing lists the target directories which didn't exist and were skipped.
	Missing []string
	// Sanitized is the combined result of purging junk from the target directories.
	Sanitized junk.Report
}

// Pack purges junk from the target directories under sourceRoot and then writes every remaining
// file in them into a new zip archive at archivePath, replacing any archive already there. Each
// entry is named by its path relative to sourceRoot, so the target directory name is always the
// first path segment. Targets which don't exist are listed in the result instead of failing the
// pack.
func Pack(
	targets *structures.OrderedSet[string], sourceRoot, archivePath string, m junk.Matcher,
) (result PackResult, err error) {
	result.ArchivePath = archivePath
	for _, target := range targets.Values() {
		targetPath := filepath.Join(sourceRoot, target)
		if !ffs.DirExists(targetPath) {
			continue
		}
		report, err := junk.Purge(targetPath, m)
		if err != nil {
			return result, errors.Wrapf(err, "couldn't sanitize %s", targetPath)
		}
		result.Sanitized.Removed = append(result.Sanitized.Removed, report.Removed...)
		result.Sanitized.Failed = append(result.Sanitized.Failed, report.Failed...)
	}

	if _, err = ffs.RemoveFile(archivePath); err != nil {
		return result, &ArchiveWriteError{
			Path: archivePath, Err: errors.Wrap(err, "couldn't remove previous archive"),
		}
	}
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return result, &ArchiveWriteError{Path: archivePath, Err: err}
	}
	defer func() {
		if closeErr := archiveFile.Close(); closeErr != nil && err == nil {
			err = &ArchiveWriteError{Path: archivePath, Err: closeErr}
		}
	}()

	zw := zip.NewWriter(archiveFile)
	for _, target := range targets.Values() {
		if !ffs.DirExists(filepath.Join(sourceRoot, target)) {
			result.Missing = append(result.Missing, target)
			continue
		}
		if err = packTree(zw, sourceRoot, target, m, &result); err != nil {
			return result, &ArchiveWriteError{
				Path: archivePath, Err: errors.Wrapf(err, "couldn't pack %s", target),
			}
		}
	}
	if err = zw.Close(); err != nil {
		return result, &ArchiveWriteError{Path: archivePath, Err: err}
	}
	return result, nil
}

func packTree(
	zw *zip.Writer, sourceRoot, target string, m junk.Matcher, result *PackResult,
) error {
	return filepath.WalkDir(
		filepath.Join(sourceRoot, target),
		func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(sourceRoot, filePath)
			if err != nil {
				return err
			}
			entryName := filepath.ToSlash(rel)
			if d.IsDir() {
				if m.IsJunkDir(entryName) {
					return fs.SkipDir
				}
				return nil
			}

			info, err := os.Stat(filePath) // follows symlinks
			if err != nil {
				return errors.Wrapf(err, "couldn't stat %s", filePath)
			}
			if !info.Mode().IsRegular() || m.IsJunkFile(entryName) {
				return nil
			}
			if err = packFile(zw, filePath, entryName, info); err != nil {
				return err
			}
			result.Files++
			result.Bytes += info.Size()
			return nil
		},
	)
}

func packFile(zw *zip.Writer, filePath, entryName string, info fs.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrapf(err, "couldn't make archive header for %s", filePath)
	}
	header.Name = entryName
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.Wrapf(err, "couldn't add archive entry %s", entryName)
	}
	file, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "couldn't open %s", filePath)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: couldn't close %s\n", filePath)
		}
	}()
	if _, err = io.Copy(w, file); err != nil {
		return errors.Wrapf(err, "couldn't compress %s into archive entry %s", filePath, entryName)
	}
	return nil
}
