package assetlift

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"
	"github.com/pkg/errors"

	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
)

// ErrNoIdentifier is returned when no remote file ID was provided for a download.
var ErrNoIdentifier = errors.New("no remote file ID was provided")

// A DownloadError is returned when an archive couldn't be downloaded.
type DownloadError struct {
	ID  string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("couldn't download archive %s: %s", e.ID, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// A Downloader downloads the remote file with the specified ID to outputPath, returning the number
// of bytes downloaded. Implementations must not leave a partial file at outputPath on failure.
type Downloader interface {
	Download(ctx context.Context, id, outputPath string) (int64, error)
}

// An IdentifierSource provides the ID of the remote archive without asking the operator.
type IdentifierSource interface {
	// Identifier returns the ID, or an empty string if there isn't one.
	Identifier() string
}

// EnvIdentifier is an IdentifierSource which reads the ID from an environment variable.
type EnvIdentifier string

func (e EnvIdentifier) Identifier() string {
	return strings.TrimSpace(os.Getenv(string(e)))
}

// ObtainArchive makes sure that an archive exists at localPath. If one already exists there, the
// operator is asked whether to reuse it. Otherwise the archive is downloaded from the remote file
// whose ID comes from ids or, failing that, from the operator. If no ID is provided at all,
// [ErrNoIdentifier] is returned and nothing on disk is changed.
func ObtainArchive(
	ctx context.Context, localPath string, ids IdentifierSource, dl Downloader,
	n Notifier, p Prompter,
) (string, error) {
	if ffs.FileExists(localPath) {
		n.Warnf("Found existing archive %s.", localPath)
		reuse, err := p.Confirm(ctx, "Use local file?", true)
		if err != nil {
			return "", err
		}
		if reuse {
			return localPath, nil
		}
	}

	id := ids.Identifier()
	if id == "" {
		var err error
		if id, err = p.Ask(ctx, "Enter Google Drive file ID:"); err != nil {
			return "", err
		}
	}
	if id == "" {
		return "", ErrNoIdentifier
	}

	n.Infof("Downloading assets (ID: %s)...", id)
	size, err := dl.Download(ctx, id, localPath)
	if err != nil {
		return "", &DownloadError{ID: id, Err: err}
	}
	n.Detailf("Downloaded %s to %s", units.HumanSize(float64(size)), localPath)
	return localPath, nil
}
