package assetlift

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
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

type scriptedPrompter struct {
	confirm    bool
	confirmErr error
	answer     string
	askErr     error
	asked      []string
}

func (p *scriptedPrompter) Confirm(_ context.Context, question string, _ bool) (bool, error) {
	p.asked = append(p.asked, question)
	return p.confirm, p.confirmErr
}

func (p *scriptedPrompter) Ask(_ context.Context, question string) (string, error) {
	p.asked = append(p.asked, question)
	return p.answer, p.askErr
}

type fakeDownloader struct {
	contents string
	err      error
	ids      []string
}

func (d *fakeDownloader) Download(_ context.Context, id, outputPath string) (int64, error) {
	d.ids = append(d.ids, id)
	if d.err != nil {
		return 0, d.err
	}
	if err := os.WriteFile(outputPath, []byte(d.contents), 0o644); err != nil {
		return 0, err
	}
	return int64(len(d.contents)), nil
}

type staticIdentifier string

func (s staticIdentifier) Identifier() string {
	return string(s)
}

func TestObtainArchive(t *testing.T) {
	t.Parallel()
	for name, tc := range map[string]struct {
		existing     string
		id           string
		prompter     scriptedPrompter
		wantContents string
		wantIDs      []string
		wantAsked    []string
	}{
		"reuse local archive": {
			existing:     "local",
			id:           "env-id",
			prompter:     scriptedPrompter{confirm: true},
			wantContents: "local",
			wantAsked:    []string{"Use local file?"},
		},
		"decline local archive": {
			existing:     "local",
			id:           "env-id",
			prompter:     scriptedPrompter{confirm: false},
			wantContents: "remote",
			wantIDs:      []string{"env-id"},
			wantAsked:    []string{"Use local file?"},
		},
		"identifier from environment": {
			id:           "env-id",
			wantContents: "remote",
			wantIDs:      []string{"env-id"},
		},
		"identifier from operator": {
			prompter:     scriptedPrompter{answer: "typed-id"},
			wantContents: "remote",
			wantIDs:      []string{"typed-id"},
			wantAsked:    []string{"Enter Google Drive file ID:"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			localPath := filepath.Join(t.TempDir(), "assets.zip")
			if tc.existing != "" {
				if err := os.WriteFile(localPath, []byte(tc.existing), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			dl := &fakeDownloader{contents: "remote"}
			p := tc.prompter

			got, err := ObtainArchive(
				context.Background(), localPath, staticIdentifier(tc.id), dl, &recordingNotifier{}, &p,
			)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != localPath {
				t.Errorf("got archive path %s, expected %s", got, localPath)
			}
			contents, err := os.ReadFile(localPath)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.wantContents, string(contents)); diff != "" {
				t.Errorf("unexpected archive contents (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantIDs, dl.ids); diff != "" {
				t.Errorf("unexpected downloads (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantAsked, p.asked); diff != "" {
				t.Errorf("unexpected prompts (-want +got):\n%s", diff)
			}
		})
	}
}

func TestObtainArchiveNoIdentifier(t *testing.T) {
	t.Parallel()
	localPath := filepath.Join(t.TempDir(), "assets.zip")
	if err := os.WriteFile(localPath, []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}
	dl := &fakeDownloader{contents: "remote"}

	_, err := ObtainArchive(
		context.Background(), localPath, staticIdentifier(""), dl, &recordingNotifier{},
		&scriptedPrompter{confirm: false, answer: ""},
	)
	if !errors.Is(err, ErrNoIdentifier) {
		t.Fatalf("got error %v, expected ErrNoIdentifier", err)
	}
	if len(dl.ids) > 0 {
		t.Errorf("nothing should have been downloaded, but got %v", dl.ids)
	}
	// The declined archive is left alone since nothing could replace it
	contents, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(contents) != "local" {
		t.Errorf("local archive was modified: %q", contents)
	}
}

func TestObtainArchiveDownloadFailure(t *testing.T) {
	t.Parallel()
	localPath := filepath.Join(t.TempDir(), "assets.zip")
	cause := errors.New("connection reset")

	_, err := ObtainArchive(
		context.Background(), localPath, staticIdentifier("abc"), &fakeDownloader{err: cause},
		&recordingNotifier{}, &scriptedPrompter{},
	)
	var downloadErr *DownloadError
	if !errors.As(err, &downloadErr) {
		t.Fatalf("got error %v, expected a DownloadError", err)
	}
	if downloadErr.ID != "abc" || !errors.Is(err, cause) {
		t.Errorf("unexpected download error %v", downloadErr)
	}
}

func TestObtainArchiveInterrupted(t *testing.T) {
	t.Parallel()
	for name, p := range map[string]*scriptedPrompter{
		"while confirming": {confirmErr: ErrInterrupted},
		"while asking":     {askErr: ErrInterrupted},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			localPath := filepath.Join(t.TempDir(), "assets.zip")
			if p.confirmErr != nil {
				if err := os.WriteFile(localPath, []byte("local"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			dl := &fakeDownloader{}
			_, err := ObtainArchive(
				context.Background(), localPath, staticIdentifier(""), dl, &recordingNotifier{}, p,
			)
			if !errors.Is(err, ErrInterrupted) {
				t.Errorf("got error %v, expected ErrInterrupted", err)
			}
			if len(dl.ids) > 0 {
				t.Errorf("nothing should have been downloaded, but got %v", dl.ids)
			}
		})
	}
}

func TestEnvIdentifier(t *testing.T) {
	t.Setenv("ASSETLIFT_TEST_ID", "  abc123 \n")
	if got := EnvIdentifier("ASSETLIFT_TEST_ID").Identifier(); got != "abc123" {
		t.Errorf("got identifier %q, expected abc123", got)
	}
	if got := EnvIdentifier("ASSETLIFT_TEST_UNSET").Identifier(); got != "" {
		t.Errorf("got identifier %q, expected none", got)
	}
}

func TestParseConfirmation(t *testing.T) {
	t.Parallel()
	for answer, want := range map[string]bool{
		"":      true,
		"  ":    true,
		"y":     true,
		"Yes":   true,
		"OK":    true,
		"n":     false,
		"no":    false,
		"maybe": false,
	} {
		if got := ParseConfirmation(answer, true); got != want {
			t.Errorf("ParseConfirmation(%q, true) = %t, expected %t", answer, got, want)
		}
	}
	if ParseConfirmation("", false) {
		t.Error("an empty answer should give the default")
	}
}
