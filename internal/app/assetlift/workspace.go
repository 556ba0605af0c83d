// Package assetlift has the application logic for distributing a site's asset directories.
package assetlift

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
)

// A Workspace is the directory holding a site root, along with the archive and staging directory
// used to distribute the site's assets. It's usually the directory assetlift is invoked from.
type Workspace struct {
	// Dir is the path of the workspace directory.
	Dir string
	// Config is the workspace's config, or the default config if the workspace has no config file.
	Config Config
}

// LoadWorkspace loads the workspace at the specified path, checking that its config is valid and
// compatible with the tool version.
func LoadWorkspace(dirPath, toolVersion string) (*Workspace, error) {
	if !ffs.DirExists(dirPath) {
		return nil, errors.Errorf("couldn't find workspace at %s", dirPath)
	}
	config, err := LoadConfig(dirPath)
	if err != nil {
		return nil, err
	}
	if errs := config.Check(); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, err := range errs {
			messages = append(messages, err.Error())
		}
		return nil, errors.Errorf("invalid config in %s: %s", dirPath, strings.Join(messages, "; "))
	}
	if err = CheckConfigCompat(
		config.AssetliftVersion, toolVersion, filepath.Join(dirPath, ConfigFile),
	); err != nil {
		return nil, err
	}
	return &Workspace{
		Dir:    dirPath,
		Config: config,
	}, nil
}

// SiteRootPath returns the path of the live site root.
func (w *Workspace) SiteRootPath() string {
	return filepath.Join(w.Dir, w.Config.Root)
}

// ArchivePath returns the path of the asset archive.
func (w *Workspace) ArchivePath() string {
	return filepath.Join(w.Dir, w.Config.Archive)
}

// StagingPath returns the path of the directory where archives are unpacked.
func (w *Workspace) StagingPath() string {
	return filepath.Join(w.Dir, w.Config.Staging)
}
