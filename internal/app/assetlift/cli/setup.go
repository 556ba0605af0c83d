package cli

import (
	"context"
	"os"
	"path"

	"github.com/pkg/errors"

	"github.com/nguyenpanda/assetlift/internal/app/assetlift"
	"github.com/nguyenpanda/assetlift/pkg/bundling"
	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
	"github.com/nguyenpanda/assetlift/pkg/installing"
)

// Setup obtains the workspace's asset archive, either by reusing a local copy or by downloading
// it, and installs it into the workspace's site root.
func Setup(
	ctx context.Context, ws *assetlift.Workspace, ids assetlift.IdentifierSource,
	dl assetlift.Downloader, n assetlift.Notifier, p assetlift.Prompter,
) (installing.Result, error) {
	archivePath, err := assetlift.ObtainArchive(ctx, ws.ArchivePath(), ids, dl, n, p)
	if err != nil {
		return installing.Result{}, err
	}
	return InstallArchive(ctx, ws, archivePath, n)
}

// InstallArchive unpacks the archive into the workspace's staging directory and replaces the
// matching target directories of the site root with the unpacked ones. The staging directory is
// always removed afterwards; the archive is only deleted if the installation succeeds.
func InstallArchive(
	ctx context.Context, ws *assetlift.Workspace, archivePath string, n assetlift.Notifier,
) (result installing.Result, err error) {
	m, err := ws.Config.Matcher()
	if err != nil {
		return result, err
	}

	staging := ws.StagingPath()
	if err = ffs.EnsureFresh(staging); err != nil {
		return result, errors.Wrapf(err, "couldn't prepare staging directory %s", staging)
	}
	defer func() {
		if removeErr := os.RemoveAll(staging); removeErr != nil {
			n.Warnf("Couldn't remove staging directory %s: %s", staging, removeErr)
		}
	}()

	reportDigest(n, archivePath)
	n.Infof("Extracting %s...", archivePath)
	if err = bundling.Extract(ctx, archivePath, staging); err != nil {
		return result, err
	}
	root, err := bundling.ResolveRoot(staging, ws.Config.Root, m)
	if err != nil {
		return result, err
	}
	if root != staging {
		n.Detailf("Unwrapped the archive's %s directory", ws.Config.Root)
	}

	n.Infof("Installing into %s...", ws.Config.Root)
	result, err = installing.Install(root, ws.SiteRootPath(), ws.Config.TargetSet(), m)
	reportSanitized(n, result.Sanitized)
	for _, name := range result.Replaced {
		n.Detailf("Updated: %s", path.Join(ws.Config.Root, name))
	}
	for _, name := range result.Skipped {
		n.Warnf("Skipped %s, which isn't one of the managed directories", name)
	}
	if err != nil {
		return result, err
	}

	if _, removeErr := ffs.RemoveFile(archivePath); removeErr != nil {
		n.Warnf("Couldn't delete archive %s: %s", archivePath, removeErr)
	}
	n.Successf("Successfully installed %d folders.", len(result.Replaced))
	return result, nil
}
