package cli

import (
	"github.com/pkg/errors"

	"github.com/nguyenpanda/assetlift/internal/app/assetlift"
	"github.com/nguyenpanda/assetlift/pkg/bundling"
	"github.com/nguyenpanda/assetlift/pkg/installing"
)

// Exit statuses of the CLIs.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// HandleExit reports the error which ended a run, if any, and returns the exit status for it. An
// operator interrupting a prompt isn't treated as a failure.
func HandleExit(n assetlift.Notifier, err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		corruptErr  *bundling.CorruptArchiveError
		writeErr    *bundling.ArchiveWriteError
		downloadErr *assetlift.DownloadError
		moveErr     *installing.MoveError
	)
	switch {
	case errors.Is(err, assetlift.ErrInterrupted):
		n.Warnf("Operation cancelled.")
		return ExitOK
	case errors.Is(err, assetlift.ErrNoIdentifier):
		n.Errorf("No file ID provided; set it in the environment or enter it when asked.")
	case errors.As(err, &corruptErr):
		n.Errorf("Corrupted archive %s, nothing was installed: %s", corruptErr.Path, corruptErr.Err)
		n.Detailf("Delete it and run setup again to download a fresh copy.")
	case errors.As(err, &writeErr):
		n.Errorf("Couldn't write the archive %s: %s", writeErr.Path, writeErr.Err)
	case errors.As(err, &downloadErr):
		n.Errorf("Download of file %s failed: %s", downloadErr.ID, downloadErr.Err)
	case errors.As(err, &moveErr):
		n.Errorf("Couldn't move %s into %s: %s", moveErr.Name, moveErr.Dest, moveErr.Err)
		n.Detailf("Directories installed before %s were kept.", moveErr.Name)
	default:
		n.Errorf("%s", err)
	}
	return ExitFailure
}
