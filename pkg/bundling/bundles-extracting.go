package bundling

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"

	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
)

// sniffLength is how much of a file is read to determine its type.
const sniffLength = 262

// Extract unpacks every entry of the zip archive at archivePath into destDir, which must already
// exist. If the file isn't a zip archive, or if any entry fails its integrity check or would be
// extracted outside destDir, a [*CorruptArchiveError] is returned.
func Extract(ctx context.Context, archivePath, destDir string) error {
	if err := checkArchiveType(archivePath); err != nil {
		return err
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return &CorruptArchiveError{Path: archivePath, Err: err}
	}
	defer func() {
		if err := reader.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: couldn't close archive %s\n", archivePath)
		}
	}()

	var links []*zip.File
	for _, file := range reader.File {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrapf(ctxErr, "extraction of %s was interrupted", archivePath)
		}
		targetPath, err := entryTargetPath(destDir, file.Name)
		if err != nil {
			return &CorruptArchiveError{Path: archivePath, Err: err}
		}
		if isSymlink(file) {
			links = append(links, file)
			continue
		}
		if err = extractEntry(file, targetPath); err != nil {
			return entryError(archivePath, file, err)
		}
	}

	// Symlinks are made only after everything else, so that no entry is written through one
	linkPaths := make([]string, 0, len(links))
	for _, file := range links {
		targetPath, err := entryTargetPath(destDir, file.Name)
		if err != nil {
			return &CorruptArchiveError{Path: archivePath, Err: err}
		}
		if err = extractSymlink(file, destDir, targetPath); err != nil {
			return entryError(archivePath, file, err)
		}
		linkPaths = append(linkPaths, targetPath)
	}
	if err = checkSymlinkTargets(destDir, linkPaths); err != nil {
		return &CorruptArchiveError{Path: archivePath, Err: err}
	}
	return nil
}

func entryError(archivePath string, file *zip.File, err error) error {
	if isIntegrityError(err) {
		return &CorruptArchiveError{
			Path: archivePath, Err: errors.Wrapf(err, "couldn't read entry %s", file.Name),
		}
	}
	return errors.Wrapf(err, "couldn't extract %s from %s", file.Name, archivePath)
}

func checkArchiveType(archivePath string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrapf(err, "couldn't open archive %s", archivePath)
	}
	defer func() {
		_ = file.Close()
	}()

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "couldn't read archive %s", archivePath)
	}
	head = head[:n]
	if filetype.Is(head, "zip") {
		return nil
	}
	kind, _ := filetype.Match(head)
	if kind == filetype.Unknown {
		return &CorruptArchiveError{Path: archivePath, Err: errors.New("file is not a zip archive")}
	}
	return &CorruptArchiveError{
		Path: archivePath,
		Err:  errors.Errorf("file is %s (.%s), not a zip archive", kind.MIME.Value, kind.Extension),
	}
}

// entryTargetPath returns where the archive entry should be extracted in destDir, or an error if
// the entry's name would place it outside destDir.
func entryTargetPath(destDir, name string) (string, error) {
	cleaned := path.Clean(strings.TrimSuffix(name, "/"))
	if name == "" || cleaned == "." || !filepath.IsLocal(filepath.FromSlash(cleaned)) {
		return "", errors.Errorf("entry %q has an unsafe path", name)
	}
	return filepath.Join(destDir, filepath.FromSlash(cleaned)), nil
}

func isSymlink(file *zip.File) bool {
	mode := file.Mode()
	return mode&fs.ModeSymlink != 0 && !mode.IsDir() && !strings.HasSuffix(file.Name, "/")
}

func extractEntry(file *zip.File, targetPath string) error {
	if file.Mode().IsDir() || strings.HasSuffix(file.Name, "/") {
		return ffs.EnsureExists(targetPath)
	}
	return extractRegularFile(file, targetPath)
}

func extractRegularFile(file *zip.File, targetPath string) error {
	if err := ffs.EnsureExists(filepath.Dir(targetPath)); err != nil {
		return errors.Wrapf(err, "couldn't create parent directory of %s", targetPath)
	}
	perm := file.Mode().Perm()
	if perm == 0 {
		perm = 0o644 // owner rw, group r, public r
	}

	entry, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = entry.Close()
	}()

	targetFile, err := os.OpenFile(targetPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, "couldn't create file at %s", targetPath)
	}
	if _, err = io.Copy(targetFile, entry); err != nil {
		_ = targetFile.Close()
		return err
	}
	if err = targetFile.Close(); err != nil {
		return errors.Wrapf(err, "couldn't finish writing %s", targetPath)
	}
	if !file.Modified.IsZero() {
		if err = os.Chtimes(targetPath, file.Modified, file.Modified); err != nil {
			return errors.Wrapf(err, "couldn't set modification time of %s", targetPath)
		}
	}
	return nil
}

func extractSymlink(file *zip.File, destDir, targetPath string) error {
	entry, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = entry.Close()
	}()
	linkTarget, err := io.ReadAll(entry)
	if err != nil {
		return err
	}

	resolved := filepath.Join(filepath.Dir(targetPath), filepath.FromSlash(string(linkTarget)))
	rel, err := filepath.Rel(destDir, resolved)
	if filepath.IsAbs(string(linkTarget)) || err != nil || !filepath.IsLocal(rel) {
		return errors.Wrapf(
			zip.ErrFormat, "symlink %s points outside the archive to %s", file.Name, linkTarget,
		)
	}
	if err = checkNoSymlinkParents(destDir, targetPath); err != nil {
		return err
	}
	if _, err = os.Lstat(targetPath); err == nil {
		return errors.Wrapf(zip.ErrFormat, "symlink %s collides with another entry", file.Name)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "couldn't check whether %s exists", targetPath)
	}
	if err = ffs.EnsureExists(filepath.Dir(targetPath)); err != nil {
		return errors.Wrapf(err, "couldn't create parent directory of %s", targetPath)
	}
	return os.Symlink(string(linkTarget), targetPath)
}

// checkNoSymlinkParents returns an error if any existing directory between destDir and
// targetPath is a symlink.
func checkNoSymlinkParents(destDir, targetPath string) error {
	rel, err := filepath.Rel(destDir, filepath.Dir(targetPath))
	if err != nil {
		return errors.Wrapf(err, "couldn't locate %s in %s", targetPath, destDir)
	}
	if rel == "." {
		return nil
	}
	current := destDir
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "couldn't check %s", current)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return errors.Wrapf(zip.ErrFormat, "entry %s is inside symlink %s", targetPath, current)
		}
	}
	return nil
}

// checkSymlinkTargets resolves each extracted symlink, including through any other symlinks, and
// returns an error if one is dangling or resolves to a path outside destDir.
func checkSymlinkTargets(destDir string, linkPaths []string) error {
	if len(linkPaths) == 0 {
		return nil
	}
	root, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return errors.Wrapf(err, "couldn't resolve %s", destDir)
	}
	for _, linkPath := range linkPaths {
		resolved, err := filepath.EvalSymlinks(linkPath)
		if err != nil {
			return errors.Wrapf(err, "couldn't resolve symlink %s", linkPath)
		}
		if rel, err := filepath.Rel(root, resolved); err != nil || !filepath.IsLocal(rel) {
			return errors.Errorf("symlink %s resolves outside the archive to %s", linkPath, resolved)
		}
	}
	return nil
}

func isIntegrityError(err error) bool {
	return errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) ||
		errors.Is(err, zip.ErrAlgorithm) || errors.Is(err, io.ErrUnexpectedEOF)
}
