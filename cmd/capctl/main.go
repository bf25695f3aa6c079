package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/cli/add"
	"github.com/nightconcept/capctl/internal/cli/check"
	"github.com/nightconcept/capctl/internal/cli/conflicts"
	"github.com/nightconcept/capctl/internal/cli/fmtcmd"
	"github.com/nightconcept/capctl/internal/cli/initcmd"
	"github.com/nightconcept/capctl/internal/cli/install"
	"github.com/nightconcept/capctl/internal/cli/list"
	"github.com/nightconcept/capctl/internal/cli/remove"
	"github.com/nightconcept/capctl/internal/cli/self"
	"github.com/nightconcept/capctl/internal/cli/update"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

func main() {
	app := &cli.App{
		Name:    "capctl",
		Usage:   "Checks and registers desktop-integration capabilities of applications",
		Version: version,
		Action: func(c *cli.Context) error {
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			initcmd.NewInitCommand(),
			check.NewCheckCommand(),
			fmtcmd.NewFmtCommand(),
			add.AddCommand,
			remove.RemoveCommand(),
			list.ListCmd,
			conflicts.NewConflictsCommand(),
			install.NewInstallCommand(),
			update.NewUpdateCommand(),
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
