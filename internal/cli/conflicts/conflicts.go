// Package conflicts implements the "conflicts" command.
package conflicts

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/cli/output"
	"github.com/nightconcept/capctl/internal/core/conflict"
	"github.com/nightconcept/capctl/internal/core/registry"
)

type conflictReport struct {
	ID       string `json:"id" yaml:"id"`
	Existing string `json:"existing" yaml:"existing"`
	New      string `json:"new" yaml:"new"`
}

func toReports(conflicts []conflict.Conflict) []conflictReport {
	reports := make([]conflictReport, len(conflicts))
	for i, c := range conflicts {
		reports[i] = conflictReport{ID: c.ID, Existing: c.Existing.String(), New: c.New.String()}
	}
	return reports
}

// NewConflictsCommand returns the definition for the "conflicts" command.
func NewConflictsCommand() *cli.Command {
	return &cli.Command{
		Name:  "conflicts",
		Usage: "Reports registrations claimed by more than one registered app",
		Flags: []cli.Flag{output.Flag()},
		Action: func(c *cli.Context) error {
			format, err := output.FromContext(c)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			reg, err := registry.Open(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			apps, err := reg.Apps()
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			found := conflict.Detect(reg.Target.OS, apps...)
			for _, app := range apps {
				found = append(found, conflict.InnerConflicts(reg.Target.OS, app)...)
			}

			if format != output.FormatText {
				if err := output.Write(c.App.Writer, format, toReports(found)); err != nil {
					return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
				}
			} else if len(found) == 0 {
				_, _ = fmt.Fprintf(c.App.Writer, "No conflicts between %d apps on %s.\n", len(apps), reg.Target.OS)
			} else {
				for _, cf := range found {
					_, _ = fmt.Fprintf(c.App.Writer, "%s\n  %s\n  %s\n", color.RedString(cf.ID), cf.Existing, cf.New)
				}
			}

			if len(found) > 0 {
				return cli.Exit(fmt.Sprintf("Error: %d conflicts found.", len(found)), 1)
			}
			return nil
		},
	}
}
