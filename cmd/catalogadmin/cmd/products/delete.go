package products

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/pkg/confirm"
)

// NewDeleteCommand creates the products delete subcommand.
func NewDeleteCommand(app appcontext.Interface) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context(), app)
			if err != nil {
				return err
			}
			original, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			return apply(cmd, app, c, confirm.Delete{Original: original}, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm without asking")

	return cmd
}
