// Package update implements the "update" command.
package update

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/core/hasher"
	"github.com/nightconcept/capctl/internal/core/lockfile"
	"github.com/nightconcept/capctl/internal/core/registry"
	"github.com/nightconcept/capctl/internal/core/source"
)

// NewUpdateCommand creates a new cli.Command for the "update" command.
func NewUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Fetches the current documents of registered apps and re-checks them for conflicts",
		ArgsUsage: "[app_names...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pin",
				Usage: "Re-pin GitHub sources to the latest commit of their documents",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			verbose := c.Bool("verbose")
			out, errOut := c.App.Writer, c.App.ErrWriter

			reg, err := registry.Open(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			names, unknown := reg.Select(c.Args().Slice())
			for _, name := range unknown {
				_, _ = fmt.Fprintf(errOut, "Warning: App '%s' is not registered. Skipping.\n", name)
			}

			var failed []string
			updated := 0
			for _, name := range names {
				entry := reg.Lock.Apps[name]
				src, err := source.Parse(entry.Source)
				if err != nil {
					_, _ = fmt.Fprintf(errOut, "Error: Could not parse source of '%s' (%s): %v\n", name, entry.Source, err)
					failed = append(failed, name)
					continue
				}
				if c.Bool("pin") {
					if err := src.Pin(c.Context); err != nil {
						_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
						failed = append(failed, name)
						continue
					}
				}
				if verbose {
					_, _ = fmt.Fprintf(out, "Fetching '%s' from %s\n", name, src.Location)
				}
				data, err := src.Fetch(c.Context)
				if err != nil {
					_, _ = fmt.Fprintf(errOut, "Error: Failed to fetch '%s': %v\n", name, err)
					failed = append(failed, name)
					continue
				}

				same, err := hasher.Verify(data, entry.Hash)
				if err == nil && same && src.Canonical == entry.Source {
					if status, _ := reg.Status(name); status == registry.StatusOK {
						if verbose {
							_, _ = fmt.Fprintf(out, "  - %s: Already up-to-date.\n", name)
						}
						continue
					}
				}

				newEntry, warnings, err := reg.Register(name, src.Canonical, data)
				for _, w := range warnings {
					_, _ = fmt.Fprintf(out, "%s %s\n", color.YellowString("Warning:"), w)
				}
				if err != nil {
					_, _ = fmt.Fprintf(errOut, "Error: Could not update '%s': %v\n", name, err)
					failed = append(failed, name)
					continue
				}
				updated++
				_, _ = fmt.Fprintf(out, "Updated '%s' (%s)\n", color.GreenString(name), newEntry.Hash)
			}

			if updated > 0 {
				if err := reg.Save(); err != nil {
					return cli.Exit(fmt.Sprintf("Error saving %s: %v", lockfile.LockfileName, err), 1)
				}
			}
			if len(failed) > 0 {
				return cli.Exit(fmt.Sprintf("Error: %d apps could not be updated: %v", len(failed), failed), 1)
			}
			if updated == 0 {
				_, _ = fmt.Fprintln(out, "All apps are already up-to-date.")
			}
			return nil
		},
	}
}
