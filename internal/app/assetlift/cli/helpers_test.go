package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/nguyenpanda/assetlift/internal/app/assetlift"
)

type recordingNotifier struct {
	lines []string
}

func (n *recordingNotifier) record(level, format string, a ...any) {
	n.lines = append(n.lines, level+": "+fmt.Sprintf(format, a...))
}

func (n *recordingNotifier) Infof(format string, a ...any)    { n.record("info", format, a...) }
func (n *recordingNotifier) Detailf(format string, a ...any)  { n.record("detail", format, a...) }
func (n *recordingNotifier) Successf(format string, a ...any) { n.record("success", format, a...) }
func (n *recordingNotifier) Warnf(format string, a ...any)    { n.record("warn", format, a...) }
func (n *recordingNotifier) Errorf(format string, a ...any)   { n.record("error", format, a...) }

func (n *recordingNotifier) withLevel(level string) (lines []string) {
	for _, line := range n.lines {
		if message, ok := strings.CutPrefix(line, level+": "); ok {
			lines = append(lines, message)
		}
	}
	return lines
}

type answeringPrompter struct {
	reuse bool
	id    string
}

func (p answeringPrompter) Confirm(context.Context, string, bool) (bool, error) {
	return p.reuse, nil
}

func (p answeringPrompter) Ask(context.Context, string) (string, error) {
	return p.id, nil
}

type archiveDownloader struct {
	archive map[string]string
	t       *testing.T
}

func (d archiveDownloader) Download(_ context.Context, _, outputPath string) (int64, error) {
	writeArchive(d.t, outputPath, d.archive)
	info, err := os.Stat(outputPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func newWorkspace(t *testing.T) *assetlift.Workspace {
	t.Helper()
	return &assetlift.Workspace{
		Dir:    t.TempDir(),
		Config: assetlift.DefaultConfig(),
	}
}

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

// readFiles returns the contents of every regular file in the tree at root, keyed by
// slash-separated relative path.
func readFiles(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		contents, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(contents)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func writeArchive(t *testing.T, archivePath string, entries map[string]string) {
	t.Helper()
	file, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	zw := zip.NewWriter(file)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = w.Write([]byte(entries[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func readArchive(t *testing.T, archivePath string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	entries := make(map[string]string)
	for _, file := range zr.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatal(err)
		}
		buf := make([]byte, file.UncompressedSize64)
		if _, err = io.ReadFull(rc, buf); err != nil {
			t.Fatal(err)
		}
		_ = rc.Close()
		entries[file.Name] = string(buf)
	}
	return entries
}

func assertMissing(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", p)
		}
	}
}
