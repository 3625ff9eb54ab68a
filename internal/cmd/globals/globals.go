// Package globals provides shared flag structures and utilities for CLI commands.
package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/cmd/output"
)

// Flags holds global common flags across all commands.
type Flags struct {
	Format  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// Parse extracts global flags from the command hierarchy.
// This is useful for subcommands that need to access global flags when
// they weren't passed the flags struct directly.
func Parse(cmd *cobra.Command) *Flags {
	root := cmd.Root()

	format, _ := root.PersistentFlags().GetString("format")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")

	return &Flags{
		Format:  format,
		Quiet:   quiet,
		Verbose: verbose,
		NoColor: noColor,
	}
}

// OutputFormat resolves the format flag against the configured default.
// An explicit flag wins over the configured value.
func (f *Flags) OutputFormat(configured string) (output.Format, error) {
	value := f.Format
	if value == "" {
		value = configured
	}
	if value == "" {
		return output.DetectFormat(""), nil
	}
	return output.ParseFormat(value)
}
