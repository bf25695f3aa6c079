// Package remove implements the "remove" command.
package remove

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/core/lockfile"
	"github.com/nightconcept/capctl/internal/core/registry"
)

// RemoveCommand defines the structure for the 'remove' CLI command.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Unregisters apps and deletes their stored documents",
		ArgsUsage: "<app_name>...",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("Error: Missing app name argument.", 1)
			}

			reg, err := registry.Open(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			// Validate every name first so a typo leaves the registry untouched.
			for _, name := range c.Args().Slice() {
				if _, ok := reg.Lock.Apps[name]; !ok {
					return cli.Exit(fmt.Sprintf("Error: App '%s' not found in %s.", name, lockfile.LockfileName), 1)
				}
			}

			for _, name := range c.Args().Slice() {
				if err := reg.Delete(name); err != nil {
					return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
				}
				_, _ = fmt.Fprintf(c.App.Writer, "Removed '%s'\n", color.RedString(name))
			}

			if err := reg.Save(); err != nil {
				return cli.Exit(fmt.Sprintf("Error: Failed to save %s: %v", lockfile.LockfileName, err), 1)
			}
			return nil
		},
	}
}
