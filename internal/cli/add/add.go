// Package add implements the "add" command.
package add

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/core/lockfile"
	"github.com/nightconcept/capctl/internal/core/registry"
	"github.com/nightconcept/capctl/internal/core/source"
)

// AddCommand defines the structure for the "add" command.
var AddCommand = &cli.Command{
	Name:      "add",
	Usage:     "Fetches a capabilities document and registers it as an app",
	ArgsUsage: "<source>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Name of the app (defaults to the document file name)",
		},
		&cli.BoolFlag{
			Name:  "pin",
			Usage: "Pin GitHub sources to the latest commit of the document",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Replace an app that is already registered under the same name",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
	},
	Action: func(cCtx *cli.Context) error {
		if cCtx.NArg() == 0 {
			return cli.Exit("Error: <source> argument is required.", 1)
		}
		input := cCtx.Args().First()
		verbose := cCtx.Bool("verbose")
		out := cCtx.App.Writer

		reg, err := registry.Open(".")
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		src, err := source.Parse(input)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error parsing source '%s': %v", input, err), 1)
		}
		if cCtx.Bool("pin") {
			if err := src.Pin(cCtx.Context); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			if verbose {
				_, _ = fmt.Fprintf(out, "Pinned source to %s\n", src.Canonical)
			}
		}

		name := cCtx.String("name")
		if name == "" {
			name = src.SuggestedName
		}
		if err := registry.ValidateName(name); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		if _, exists := reg.Lock.Apps[name]; exists && !cCtx.Bool("force") {
			return cli.Exit(fmt.Sprintf("Error: app '%s' is already registered. Use --force to replace it or 'update' to refresh it.", name), 1)
		}

		if verbose {
			_, _ = fmt.Fprintf(out, "Fetching %s...\n", src.Location)
		}
		data, err := src.Fetch(cCtx.Context)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error fetching '%s': %v", input, err), 1)
		}

		entry, warnings, err := reg.Register(name, src.Canonical, data)
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "%s %s\n", color.YellowString("Warning:"), w)
		}
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		if verbose {
			_, _ = fmt.Fprintf(out, "Locked '%s' with hash %s\n", name, entry.Hash)
		}
		if err := reg.Save(); err != nil {
			return cli.Exit(fmt.Sprintf("Error saving %s: %v", lockfile.LockfileName, err), 1)
		}

		_, _ = fmt.Fprintf(out, "Added '%s' from '%s' to '%s'.\n", color.GreenString(name), src.Canonical, entry.Path)
		return nil
	},
}
