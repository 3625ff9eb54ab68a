// Package browse provides the interactive product table command.
package browse

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/tui"
	"github.com/agentstation/catalogadmin/pkg/errors"
)

// NewCommand creates the browse command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "browse",
		Aliases: []string{"ui", "tui"},
		GroupID: "catalog",
		Short:   "Browse and edit products in an interactive table",
		Long: `Browse opens the product table in the terminal.

Search, filter by category, sort by any column and page through the
catalog. Products can be added, edited and deleted; every change asks
for confirmation before it is sent. Without a session the table opens
on the login screen.`,
		Example: `  catalogadmin browse
  catalogadmin browse --config ./staging.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.NewValidationError("stdout", nil, "browse needs a terminal; use 'catalogadmin products list' in scripts")
			}
			return tui.Run(cmd.Context(), app)
		},
	}
}
