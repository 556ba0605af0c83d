package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/nguyenpanda/assetlift/internal/app/assetlift"
	acli "github.com/nguyenpanda/assetlift/internal/app/assetlift/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

var app = &cli.App{
	Name:    "assetlift-setup",
	Version: toolVersion,
	Usage:   "Downloads the asset archive and installs it into the site root",
	Description: "Run from the directory holding the site root. An archive left over from a " +
		"previous run can be reused; otherwise it's downloaded from Google Drive, using the file " +
		"ID in the " + assetlift.DefaultSourceEnv + " environment variable (which may be set in a " +
		".env file) or entered when asked. Each target directory in the archive replaces the " +
		"directory of the same name in the site root as a whole; other directories are left alone.",
	Action:          setupAction,
	HideHelpCommand: true,
}

var (
	toolVersion = assetlift.DetermineVersion(buildSummary, assetlift.FallbackVersion)
	// buildSummary should be overridden by ldflags, such as with GoReleaser's "Summary".
	buildSummary = ""
)

func setupAction(c *cli.Context) error {
	if c.Args().Present() {
		return errors.Errorf("%s doesn't take any arguments", c.App.Name)
	}
	// A missing .env file is fine, since the ID can come from the environment or the operator
	_ = godotenv.Load()
	n := acli.NewConsoleNotifier(os.Stderr)
	p := acli.NewConsolePrompter(os.Stdin, os.Stderr, term.IsTerminal(int(os.Stdin.Fd())))

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "couldn't determine the current working directory")
	}
	ws, err := assetlift.LoadWorkspace(wd, toolVersion)
	if err == nil {
		dl := assetlift.GDriveDownloader{
			BaseURL: ws.Config.Source.URL,
			Client:  http.DefaultClient,
			Output:  os.Stderr,
		}
		_, err = acli.Setup(c.Context, ws, assetlift.EnvIdentifier(ws.Config.Source.Env), dl, n, p)
	}
	if status := acli.HandleExit(n, err); status != acli.ExitOK {
		return cli.Exit("", status)
	}
	return nil
}
