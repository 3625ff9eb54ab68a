// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across the commands
// and the interactive table.
package emoji

const (
	// Success marks a confirmed action or an active session.
	Success = "✓"

	// Error marks a rejected action or a missing session.
	Error = "✗"

	// Warning marks an expired session or a non-fatal problem.
	Warning = "!"

	// Info marks neutral notices such as "nothing changed".
	Info = "i"

	// Unknown stands in for an unrecognized state.
	Unknown = "?"

	// Ellipsis marks a collapsed run of pages in the page strip.
	Ellipsis = "…"

	// Pencil marks the row in edit mode.
	Pencil = "✎"
)
