// Package list implements the "list" command.
package list

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/cli/output"
	"github.com/nightconcept/capctl/internal/core/registry"
)

// appDisplayInfo holds everything shown for a registered app.
type appDisplayInfo struct {
	Name        string          `json:"name" yaml:"name"`
	Source      string          `json:"source" yaml:"source"`
	Path        string          `json:"path" yaml:"path"`
	Hash        string          `json:"hash" yaml:"hash"`
	MachineWide bool            `json:"machine_wide" yaml:"machine_wide"`
	Status      registry.Status `json:"status" yaml:"status"`
}

type listing struct {
	Target string           `json:"target" yaml:"target"`
	Apps   []appDisplayInfo `json:"apps" yaml:"apps"`
}

// ListCmd defines the structure for the 'list' command.
var ListCmd = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "Displays registered apps and the state of their documents",
	Flags:   []cli.Flag{output.Flag()},
	Action: func(c *cli.Context) error {
		format, err := output.FromContext(c)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		reg, err := registry.Open(".")
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		result := listing{Target: reg.Config.Target.OS, Apps: []appDisplayInfo{}}
		if reg.Config.Target.Version != "" {
			result.Target += " " + reg.Config.Target.Version
		}
		for _, name := range reg.Lock.Names() {
			entry := reg.Lock.Apps[name]
			status, err := reg.Status(name)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			result.Apps = append(result.Apps, appDisplayInfo{
				Name:        name,
				Source:      entry.Source,
				Path:        entry.Path,
				Hash:        entry.Hash,
				MachineWide: entry.MachineWide,
				Status:      status,
			})
		}

		if format != output.FormatText {
			if err := output.Write(c.App.Writer, format, result); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			return nil
		}
		printText(c, result)
		return nil
	},
}

func printText(c *cli.Context, result listing) {
	w := c.App.Writer
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	projectPathColor := color.New(color.FgHiBlack, color.Bold, color.Underline).SprintFunc()
	targetColor := color.New(color.FgMagenta).SprintFunc()
	appsHeaderColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	appNameColor := color.New(color.FgWhite).SprintFunc()
	appHashColor := color.New(color.FgYellow).SprintFunc()
	appPathColor := color.New(color.FgHiBlack).SprintFunc()

	_, _ = fmt.Fprintf(w, "%s %s\n\n", projectPathColor(wd), targetColor("("+result.Target+")"))
	_, _ = fmt.Fprintln(w, appsHeaderColor("apps:"))
	if len(result.Apps) == 0 {
		_, _ = fmt.Fprintln(w, "No apps registered.")
		return
	}
	for _, app := range result.Apps {
		line := fmt.Sprintf("%s %s %s", appNameColor(app.Name), appHashColor(app.Hash), appPathColor(app.Path))
		if app.MachineWide {
			line += " " + color.BlueString("[machine-wide]")
		}
		switch app.Status {
		case registry.StatusModified:
			line += " " + color.YellowString("(modified)")
		case registry.StatusMissing:
			line += " " + color.RedString("(missing)")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
