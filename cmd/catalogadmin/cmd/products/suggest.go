package products

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/globals"
	"github.com/agentstation/catalogadmin/internal/cmd/output"
	"github.com/agentstation/catalogadmin/pkg/listing"
)

// NewSuggestCommand creates the products suggest subcommand, the command
// line counterpart of the search bar's suggestion list.
func NewSuggestCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "Suggest product names containing text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context(), app)
			if err != nil {
				return err
			}
			names := listing.Suggest(c.gateway.Entries(), strings.Join(args, " "))

			format, err := globals.Parse(cmd).OutputFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			if !format.IsTable() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
