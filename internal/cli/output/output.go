// Package output renders command results in the machine-readable formats
// selected with --output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Format is an output format accepted by --output.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Flag is the shared --output flag.
func Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format: text, yaml or json",
		Value:   string(FormatText),
	}
}

// FromContext reads and validates the --output flag.
func FromContext(c *cli.Context) (Format, error) {
	f := Format(strings.ToLower(c.String("output")))
	switch f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format '%s'", c.String("output"))
}

// Write encodes v as YAML or JSON. Text output is rendered by each command.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml output: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json output: %w", err)
		}
		return nil
	}
	return fmt.Errorf("format '%s' is rendered by the command", f)
}
