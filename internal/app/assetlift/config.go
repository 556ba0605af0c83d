package assetlift

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
	"github.com/nguyenpanda/assetlift/pkg/junk"
	"github.com/nguyenpanda/assetlift/pkg/structures"
)

// ConfigFile is the name of the optional file configuring assetlift in a workspace.
const ConfigFile = "assetlift.yml"

// A Config describes which asset directories are distributed, and where the archive comes from.
type Config struct {
	// AssetliftVersion indicates that the config was written assuming the semantics of a given
	// version of assetlift. It sets the minimum version of assetlift required to use the config.
	AssetliftVersion string `yaml:"assetlift-version,omitempty"`
	// Root is the path of the live site root, relative to the workspace.
	Root string `yaml:"root"`
	// Targets lists the names of the top-level directories in the site root which are packed and
	// installed. Other directories in the site root are never touched.
	Targets []string `yaml:"targets"`
	// Archive is the path of the asset archive, relative to the workspace.
	Archive string `yaml:"archive"`
	// Staging is the path of the temporary directory where archives are unpacked, relative to the
	// workspace. It should be on the same filesystem as the site root.
	Staging string `yaml:"staging"`
	// JunkPatterns lists extra doublestar patterns of files to purge, on top of the built-in ones.
	JunkPatterns []string `yaml:"junk-patterns,omitempty"`
	// Source describes where archives are downloaded from.
	Source SourceConfig `yaml:"source"`
}

// A SourceConfig describes the remote source of asset archives.
type SourceConfig struct {
	// Env is the name of the environment variable holding the remote file ID.
	Env string `yaml:"env"`
	// URL is the Google Drive download endpoint.
	URL string `yaml:"url"`
}

const (
	DefaultRoot      = "public"
	DefaultArchive   = "public_release.zip"
	DefaultStaging   = "temp_extract_zone"
	DefaultSourceEnv = "GDRIVE_ID"
	DefaultSourceURL = "https://drive.google.com/uc"
)

// DefaultConfig returns the config used when a workspace has no config file.
func DefaultConfig() Config {
	return Config{
		Root:    DefaultRoot,
		Targets: []string{"data", "images"},
		Archive: DefaultArchive,
		Staging: DefaultStaging,
		Source: SourceConfig{
			Env: DefaultSourceEnv,
			URL: DefaultSourceURL,
		},
	}
}

// LoadConfig loads the config file in the workspace directory, filling in defaults for any fields
// it leaves out. If there is no config file, the default config is returned.
func LoadConfig(dirPath string) (Config, error) {
	config := DefaultConfig()
	filePath := filepath.Join(dirPath, ConfigFile)
	if !ffs.FileExists(filePath) {
		return config, nil
	}
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, errors.Wrapf(err, "couldn't read config file %s", filePath)
	}
	if err = yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, errors.Wrapf(err, "couldn't parse config file %s", filePath)
	}
	return config, nil
}

// Check looks for errors in the construction of the config.
func (c Config) Check() (errs []error) {
	if len(c.Targets) == 0 {
		errs = append(errs, errors.New("config must list at least one target directory"))
	}
	seen := make(structures.Set[string])
	for _, target := range c.Targets {
		if err := checkDirName(target); err != nil {
			errs = append(errs, errors.Wrapf(err, "invalid target %q", target))
			continue
		}
		if seen.Has(target) {
			errs = append(errs, errors.Errorf("target %q is listed more than once", target))
		}
		seen.Add(target)
	}
	if err := checkDirName(c.Root); err != nil {
		errs = append(errs, errors.Wrapf(err, "invalid root %q", c.Root))
	}
	if c.Archive == "" {
		errs = append(errs, errors.New("config is missing `archive` parameter"))
	}
	if c.Staging == "" {
		errs = append(errs, errors.New("config is missing `staging` parameter"))
	}
	if c.Staging != "" && filepath.Clean(c.Staging) == filepath.Clean(c.Root) {
		errs = append(errs, errors.Errorf("staging directory can't be the site root %q", c.Root))
	}
	if _, err := junk.NewMatcher(c.JunkPatterns...); err != nil {
		errs = append(errs, err)
	}
	return append(errs, c.Source.Check()...)
}

func checkDirName(name string) error {
	switch {
	case name == "":
		return errors.New("name is empty")
	case name == "." || name == "..":
		return errors.Errorf("name %q is not a directory name", name)
	case strings.ContainsAny(name, `/\`):
		return errors.Errorf("name %q must not contain path separators", name)
	}
	return nil
}

// TargetSet returns the target directories as an ordered set.
func (c Config) TargetSet() *structures.OrderedSet[string] {
	return structures.NewOrderedSet(c.Targets...)
}

// Matcher returns the junk matcher for the built-in and configured patterns.
func (c Config) Matcher() (junk.Matcher, error) {
	return junk.NewMatcher(c.JunkPatterns...)
}

// Check looks for errors in the construction of the source config.
func (c SourceConfig) Check() (errs []error) {
	if c.Env == "" {
		errs = append(errs, errors.New("source config is missing `env` parameter"))
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return append(errs, errors.Wrapf(err, "couldn't parse source url %q", c.URL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, errors.Errorf("source url %q must use http or https", c.URL))
	}
	return errs
}
