// Package initcmd implements the "init" command.
package initcmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/core/capability"
	"github.com/nightconcept/capctl/internal/core/config"
)

// NewInitCommand returns the definition for the "init" command.
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Creates a capctl.toml describing the target system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "os",
				Usage: "Target operating system (Windows, Linux, MacOSX, ...)",
				Value: capability.CurrentOS().String(),
			},
			&cli.StringFlag{
				Name:  "target-version",
				Usage: "Target OS kernel version, e.g. 10.0 for Windows 10",
			},
			&cli.StringFlag{
				Name:  "apps-dir",
				Usage: "Directory registered capability documents are stored in",
				Value: config.DefaultAppsDir,
			},
			&cli.BoolFlag{
				Name:  "machine-wide",
				Usage: "Register capabilities for all users",
			},
			&cli.BoolFlag{
				Name:  "user",
				Usage: "Write the per-user config instead of a project file",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing config file",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Default()
			cfg.Target.OS = c.String("os")
			cfg.Target.Version = c.String("target-version")
			cfg.Integration.AppsDir = c.String("apps-dir")
			cfg.Integration.MachineWide = c.Bool("machine-wide")

			if _, err := cfg.SystemTarget(); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			path := config.ConfigFileName
			if c.Bool("user") {
				userPath, err := config.UserConfigPath()
				if err != nil {
					return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
				}
				path = userPath
			}

			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return cli.Exit(fmt.Sprintf("Error: %s already exists. Use --force to overwrite it.", path), 1)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return cli.Exit(fmt.Sprintf("Error checking %s: %v", path, err), 1)
			}

			if err := config.Write(path, cfg); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			if !c.Bool("user") {
				if err := os.MkdirAll(filepath.Clean(cfg.Integration.AppsDir), 0755); err != nil {
					return cli.Exit(fmt.Sprintf("Error creating %s: %v", cfg.Integration.AppsDir, err), 1)
				}
			}

			_, _ = fmt.Fprintf(c.App.Writer, "Wrote %s (target %s)\n", color.CyanString(path), cfg.Target.OS)
			return nil
		},
	}
}
