// Package fmtcmd implements the "fmt" command.
package fmtcmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/capctl/internal/core/capability"
)

// format decodes and re-encodes a document.
func format(path string) (original, formatted []byte, err error) {
	original, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	l, err := capability.DecodeBytes(original)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	formatted, err = capability.EncodeBytes(l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return original, formatted, nil
}

// NewFmtCommand returns the definition for the "fmt" command.
func NewFmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Rewrites capabilities documents in canonical form",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write the result back to the source file instead of printing it",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "List files that are not formatted and fail if there are any",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("Error: at least one <file> argument is required.", 1)
			}
			out := c.App.Writer
			unformatted := 0

			for _, path := range c.Args().Slice() {
				original, formatted, err := format(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
				}
				changed := !bytes.Equal(original, formatted)

				switch {
				case c.Bool("check"):
					if changed {
						unformatted++
						_, _ = fmt.Fprintln(out, path)
					}
				case c.Bool("write"):
					if !changed {
						continue
					}
					if err := os.WriteFile(path, formatted, 0644); err != nil {
						return cli.Exit(fmt.Sprintf("Error writing %s: %v", path, err), 1)
					}
					_, _ = fmt.Fprintf(out, "Formatted %s\n", color.CyanString(path))
				default:
					_, _ = out.Write(formatted)
				}
			}

			if unformatted > 0 {
				return cli.Exit(fmt.Sprintf("Error: %d files are not formatted.", unformatted), 1)
			}
			return nil
		},
	}
}
