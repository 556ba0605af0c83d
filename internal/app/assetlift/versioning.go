package assetlift

import (
	"runtime/debug"

	"github.com/carlmjohnson/versioninfo"
	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// FallbackVersion is the version which the tool reports itself as if its actual version is unknown.
const FallbackVersion = "v0.1.0-dev"

// DetermineVersion returns either a semver, a pseudoversion, or a Git hash based on information
// available from Go's `debug.ReadBuildInfo()`. A non-empty override (e.g. set by ldflags) always
// wins.
func DetermineVersion(override, fallback string) string {
	if override != "" {
		return override
	}

	const dirtySuffix = "-dirty"
	if info, ok := debug.ReadBuildInfo(); ok &&
		info.Main.Version != "" && info.Main.Version != "(devel)" {
		v := info.Main.Version
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}
	if v := versioninfo.Version; v != "unknown" && v != "(devel)" {
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}

	if r := versioninfo.Revision; r != "unknown" && r != "" {
		if versioninfo.DirtyBuild {
			r += dirtySuffix
		}
		return r
	}
	return fallback
}

// CheckConfigCompat determines whether the minimum tool version declared by a config file is
// satisfied by the actual tool version. Configs which don't declare a version are always
// compatible. Development builds are never checked: these are tool versions which aren't semantic
// versions (e.g. a bare Git hash) or which have a prerelease suffix, which covers pseudo-versions
// and FallbackVersion.
func CheckConfigCompat(configVersion, toolVersion, configPath string) error {
	if configVersion == "" {
		return nil
	}
	if !semver.IsValid(configVersion) {
		return errors.Errorf(
			"%s declares assetlift version `%s`, which isn't a valid semantic version",
			configPath, configVersion,
		)
	}
	if !semver.IsValid(toolVersion) || semver.Prerelease(toolVersion) != "" {
		return nil
	}
	if semver.Compare(toolVersion, configVersion) < 0 {
		return errors.Errorf(
			"the tool's version is %s, but %s requires at least %s",
			toolVersion, configPath, configVersion,
		)
	}
	return nil
}
