package bundling

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		filePath := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filePath, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFiles(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	if err := filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			return err
		}
		contents, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(contents)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return files
}

// readArchive returns the contents of every entry in the zip archive, keyed by entry name.
func readArchive(t *testing.T, archivePath string) map[string]string {
	t.Helper()
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	entries := make(map[string]string)
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatal(err)
		}
		contents, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		entries[file.Name] = string(contents)
	}
	return entries
}

// writeArchive writes a zip archive whose entries have the given names and contents.
func writeArchive(t *testing.T, archivePath string, entries map[string]string) {
	t.Helper()
	ordered := make([]archiveEntry, 0, len(entries))
	for name, contents := range entries {
		ordered = append(ordered, archiveEntry{name: name, contents: contents})
	}
	writeArchiveEntries(t, archivePath, ordered)
}

type archiveEntry struct {
	name     string
	contents string
	// mode is only set for entries which aren't regular files or directories
	mode fs.FileMode
}

// symlinkEntry makes an archive entry for a symlink to target.
func symlinkEntry(name, target string) archiveEntry {
	return archiveEntry{name: name, contents: target, mode: fs.ModeSymlink | 0o777}
}

// writeArchiveEntries writes a zip archive with the entries in the given order.
func writeArchiveEntries(t *testing.T, archivePath string, entries []archiveEntry) {
	t.Helper()
	file, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	zw := zip.NewWriter(file)
	for _, entry := range entries {
		header := &zip.FileHeader{Name: entry.name, Method: zip.Deflate}
		if entry.mode != 0 {
			header.SetMode(entry.mode)
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = w.Write([]byte(entry.contents)); err != nil {
			t.Fatal(err)
		}
	}
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
}
