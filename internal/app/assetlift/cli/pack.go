package cli

import (
	"path"
	"strings"

	"github.com/docker/go-units"

	"github.com/nguyenpanda/assetlift/internal/app/assetlift"
	"github.com/nguyenpanda/assetlift/pkg/bundling"
	"github.com/nguyenpanda/assetlift/pkg/junk"
)

// Pack sanitizes the workspace's target directories and packs them into the workspace's archive.
// Missing target directories are reported as warnings.
func Pack(ws *assetlift.Workspace, n assetlift.Notifier) (bundling.PackResult, error) {
	m, err := ws.Config.Matcher()
	if err != nil {
		return bundling.PackResult{}, err
	}
	targets := ws.Config.TargetSet()

	n.Infof("Sanitizing and packing %s...", strings.Join(targets.Values(), ", "))
	result, err := bundling.Pack(targets, ws.SiteRootPath(), ws.ArchivePath(), m)
	reportSanitized(n, result.Sanitized)
	for _, target := range result.Missing {
		n.Warnf("Directory %s not found, skipping it", path.Join(ws.Config.Root, target))
	}
	if err != nil {
		return result, err
	}

	n.Successf(
		"Packed %d files (%s) into %s", result.Files, units.HumanSize(float64(result.Bytes)),
		result.ArchivePath,
	)
	reportDigest(n, result.ArchivePath)
	return result, nil
}

func reportSanitized(n assetlift.Notifier, report junk.Report) {
	if len(report.Removed) > 0 {
		n.Detailf("Removed %d junk files", len(report.Removed))
	}
	for _, err := range report.Failed {
		n.Warnf("%s", err)
	}
}

func reportDigest(n assetlift.Notifier, archivePath string) {
	digest, err := bundling.FileDigest(archivePath)
	if err != nil {
		n.Warnf("Couldn't compute the digest of %s: %s", archivePath, err)
		return
	}
	n.Detailf("BLAKE3 digest: %s", digest)
}
