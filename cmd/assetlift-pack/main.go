package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/nguyenpanda/assetlift/internal/app/assetlift"
	acli "github.com/nguyenpanda/assetlift/internal/app/assetlift/cli"
)

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var app = &cli.App{
	Name:    "assetlift-pack",
	Version: toolVersion,
	Usage:   "Packs the site's asset directories into an archive for distribution",
	Description: "Run from the directory holding the site root. Junk files are purged from each " +
		"target directory, and the target directories are packed into the archive, replacing any " +
		"previous archive. Targets and paths can be changed in " + assetlift.ConfigFile + ".",
	Action:          packAction,
	HideHelpCommand: true,
}

var (
	toolVersion = assetlift.DetermineVersion(buildSummary, assetlift.FallbackVersion)
	// buildSummary should be overridden by ldflags, such as with GoReleaser's "Summary".
	buildSummary = ""
)

func packAction(c *cli.Context) error {
	if c.Args().Present() {
		return errors.Errorf("%s doesn't take any arguments", c.App.Name)
	}
	n := acli.NewConsoleNotifier(os.Stderr)

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "couldn't determine the current working directory")
	}
	ws, err := assetlift.LoadWorkspace(wd, toolVersion)
	if err == nil {
		_, err = acli.Pack(ws, n)
	}
	if status := acli.HandleExit(n, err); status != acli.ExitOK {
		return cli.Exit("", status)
	}
	return nil
}
