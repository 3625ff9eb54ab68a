package products

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/cmdutil"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// NewEditCommand creates the products edit subcommand.
func NewEditCommand(app appcontext.Interface) *cobra.Command {
	var (
		flags *cmdutil.ProductFlags
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a product",
		Long: `Edit sends only the fields given as flags. Passing an empty --stock
or --price clears the value to unknown.`,
		Args: cobra.ExactArgs(1),
		Example: `  catalogadmin products edit 12 --price 5.25
  catalogadmin products edit 12 --stock "" --image ./new.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context(), app)
			if err != nil {
				return err
			}
			original, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			patch, err := flags.Patch(cmd)
			if err != nil {
				return err
			}
			if patch.Empty() {
				return errors.NewValidationError("", nil, "nothing to change, pass at least one field flag")
			}
			if err := products.ValidatePatch(patch); err != nil {
				_ = patch.Image.Release()
				return err
			}
			return apply(cmd, app, c, confirm.Edit{Original: original, Changes: patch}, yes)
		},
	}
	flags = cmdutil.AddProductFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm without asking")

	return cmd
}
