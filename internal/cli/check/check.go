// Package check implements the "check" command.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/cli/output"
	"github.com/nightconcept/capctl/internal/core/capability"
	"github.com/nightconcept/capctl/internal/core/conflict"
	"github.com/nightconcept/capctl/internal/core/iconcheck"
	"github.com/nightconcept/capctl/internal/core/registry"
)

type capabilityReport struct {
	Kind            capability.Kind `json:"kind" yaml:"kind"`
	ID              string          `json:"id" yaml:"id"`
	MachineWideOnly bool            `json:"machine_wide_only" yaml:"machine_wide_only"`
	ExplicitOnly    bool            `json:"explicit_only,omitempty" yaml:"explicit_only,omitempty"`
	ConflictIDs     []string        `json:"conflict_ids" yaml:"conflict_ids"`
}

type documentReport struct {
	File         string             `json:"file" yaml:"file"`
	OS           string             `json:"os" yaml:"os"`
	Applies      bool               `json:"applies" yaml:"applies"`
	Capabilities []capabilityReport `json:"capabilities" yaml:"capabilities"`
	Conflicts    []string           `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Warnings     []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error        string             `json:"error,omitempty" yaml:"error,omitempty"`
}

func (d documentReport) failed() bool {
	return d.Error != "" || len(d.Conflicts) > 0
}

// expand resolves every pattern to the files it matches, in order and without
// duplicates. A pattern matching nothing is an error.
func expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no documents match '%s'", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// NewCheckCommand returns the definition for the "check" command.
func NewCheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validates capabilities documents and shows the registrations they claim",
		ArgsUsage: "<pattern>...",
		Flags: []cli.Flag{
			output.Flag(),
			&cli.BoolFlag{
				Name:  "icons",
				Usage: "Verify that local icon files match their declared MIME types",
			},
			&cli.BoolFlag{
				Name:  "registry",
				Usage: "Also check the documents against the registered apps",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("Error: at least one <pattern> argument is required.", 1)
			}
			format, err := output.FromContext(c)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			reg, err := registry.Open(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			var idx *conflict.Index
			if c.Bool("registry") {
				if idx, err = reg.Index(); err != nil {
					return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
				}
			}

			files, err := expand(c.Args().Slice())
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			if c.Bool("verbose") && format == output.FormatText {
				_, _ = fmt.Fprintf(c.App.Writer, "Checking %d documents against %s\n", len(files), reg.Target.OS)
			}

			reports := make([]documentReport, 0, len(files))
			failed := 0
			for _, file := range files {
				report := checkDocument(file, reg.Target, idx, c.Bool("icons"))
				if report.failed() {
					failed++
				}
				reports = append(reports, report)
			}

			if format == output.FormatText {
				printText(c, reports)
			} else if err := output.Write(c.App.Writer, format, reports); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			if failed > 0 {
				return cli.Exit(fmt.Sprintf("Error: %d of %d documents failed the check.", failed, len(files)), 1)
			}
			return nil
		},
	}
}

func checkDocument(file string, target capability.Target, idx *conflict.Index, icons bool) documentReport {
	report := documentReport{File: filepath.ToSlash(file), Capabilities: []capabilityReport{}}

	f, err := os.Open(file)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	defer func() { _ = f.Close() }()

	l, err := capability.Decode(f)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.OS = l.OS.String()
	report.Applies = l.OS.IsCompatible(target.OS)
	if !report.Applies {
		report.Warnings = append(report.Warnings, fmt.Sprintf("capabilities for %s do not apply on %s", l.OS, target.OS))
	}

	for _, entry := range l.Entries {
		ids := make([]string, 0, len(entry.ConflictIDs()))
		for _, id := range entry.ConflictIDs() {
			ids = append(ids, conflict.IDPrefix+id)
		}
		report.Capabilities = append(report.Capabilities, capabilityReport{
			Kind:            entry.Kind(),
			ID:              entry.CapabilityID(),
			MachineWideOnly: entry.MachineWideOnly(target),
			ExplicitOnly:    capability.IsExplicitOnly(entry),
			ConflictIDs:     ids,
		})
		for _, verb := range capability.VerbsOf(entry) {
			if verb.NeedsDescriptions() {
				report.Warnings = append(report.Warnings, fmt.Sprintf("%s %q: verb '%s' is not a canonical verb and has no description", entry.Kind(), entry.CapabilityID(), verb.Name))
			}
		}
	}

	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	app := conflict.App{Name: name, Lists: []*capability.List{l}}
	for _, inner := range conflict.InnerConflicts(target.OS, app) {
		report.Conflicts = append(report.Conflicts, inner.String())
	}
	if idx != nil {
		if err := idx.Check(app); err != nil {
			report.Conflicts = append(report.Conflicts, conflictLines(err)...)
		}
	}

	if icons {
		for _, m := range iconcheck.VerifyList(filepath.Dir(file), l) {
			report.Warnings = append(report.Warnings, "icon "+m.String())
		}
	}
	return report
}

func conflictLines(err error) []string {
	var conflictErr *conflict.Error
	if !errors.As(err, &conflictErr) {
		return []string{err.Error()}
	}
	lines := make([]string, len(conflictErr.Conflicts))
	for i, c := range conflictErr.Conflicts {
		lines[i] = c.String()
	}
	return lines
}

func printText(c *cli.Context, reports []documentReport) {
	w := c.App.Writer
	fileColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	kindColor := color.New(color.FgMagenta).SprintFunc()
	idColor := color.New(color.FgHiBlack).SprintFunc()

	for i, report := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if report.Error != "" {
			_, _ = fmt.Fprintf(w, "%s %s\n", fileColor(report.File), color.RedString("invalid: "+report.Error))
			continue
		}
		_, _ = fmt.Fprintf(w, "%s (os %s)\n", fileColor(report.File), report.OS)
		for _, cr := range report.Capabilities {
			var flags []string
			if cr.MachineWideOnly {
				flags = append(flags, "machine-wide")
			}
			if cr.ExplicitOnly {
				flags = append(flags, "explicit-only")
			}
			line := fmt.Sprintf("  %s %s", kindColor(cr.Kind), cr.ID)
			if len(flags) > 0 {
				line += " [" + strings.Join(flags, ", ") + "]"
			}
			_, _ = fmt.Fprintln(w, line)
			for _, id := range cr.ConflictIDs {
				_, _ = fmt.Fprintf(w, "    %s\n", idColor(id))
			}
		}
		for _, warning := range report.Warnings {
			_, _ = fmt.Fprintf(w, "  %s %s\n", color.YellowString("warning:"), warning)
		}
		for _, line := range report.Conflicts {
			_, _ = fmt.Fprintf(w, "  %s %s\n", color.RedString("conflict:"), line)
		}
	}
}
