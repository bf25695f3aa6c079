// Package install implements the "install" command.
package install

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/core/registry"
	"github.com/nightconcept/capctl/internal/core/source"
)

// NewInstallCommand creates a new cli.Command for the "install" command.
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Restores stored documents of registered apps to their locked versions",
		ArgsUsage: "[app_names...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Fetch documents again even if they match the lockfile",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			verbose := c.Bool("verbose")
			force := c.Bool("force")
			out, errOut := c.App.Writer, c.App.ErrWriter

			reg, err := registry.Open(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			names, unknown := reg.Select(c.Args().Slice())
			for _, name := range unknown {
				_, _ = fmt.Fprintf(errOut, "Warning: App '%s' is not registered. Skipping.\n", name)
			}
			if len(names) == 0 {
				_, _ = fmt.Fprintln(out, "No apps to install.")
				return nil
			}

			var failed []string
			installed := 0
			for _, name := range names {
				status, err := reg.Status(name)
				if err != nil {
					_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
					failed = append(failed, name)
					continue
				}
				if status == registry.StatusOK && !force {
					if verbose {
						_, _ = fmt.Fprintf(out, "  - %s: Already up-to-date.\n", name)
					}
					continue
				}
				if verbose {
					_, _ = fmt.Fprintf(out, "  - %s: Needs install (%s).\n", name, status)
				}

				entry := reg.Lock.Apps[name]
				src, err := source.Parse(entry.Source)
				if err != nil {
					_, _ = fmt.Fprintf(errOut, "Error: Could not parse source of '%s' (%s): %v\n", name, entry.Source, err)
					failed = append(failed, name)
					continue
				}
				data, err := src.Fetch(c.Context)
				if err != nil {
					_, _ = fmt.Fprintf(errOut, "Error: Failed to fetch '%s': %v\n", name, err)
					failed = append(failed, name)
					continue
				}
				if err := reg.Restore(name, data); err != nil {
					if errors.Is(err, registry.ErrHashMismatch) {
						err = fmt.Errorf("%w; run 'capctl update %s' to accept the new version", err, name)
					}
					_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
					failed = append(failed, name)
					continue
				}
				installed++
				_, _ = fmt.Fprintf(out, "Installed '%s' to '%s'\n", color.GreenString(name), entry.Path)
			}

			if len(failed) > 0 {
				return cli.Exit(fmt.Sprintf("Error: %d apps could not be installed: %v", len(failed), failed), 1)
			}
			if installed == 0 {
				_, _ = fmt.Fprintln(out, "All apps are already up-to-date.")
			}
			return nil
		},
	}
}
