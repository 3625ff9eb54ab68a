package products

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/cmdutil"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// NewAddCommand creates the products add subcommand.
func NewAddCommand(app appcontext.Interface) *cobra.Command {
	var (
		flags *cmdutil.ProductFlags
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add validates the new product, shows it and asks for confirmation
before sending it to the backend. Stock and price default to 0.`,
		Args: cobra.NoArgs,
		Example: `  catalogadmin products add --name "Chew Toy" --category Dogs --stock 12 --price 4.50
  catalogadmin products add --name Leash --category Dogs --image ./leash.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := load(cmd.Context(), app)
			if err != nil {
				return err
			}
			draft, err := flags.Draft(cmd)
			if err != nil {
				return err
			}
			if err := products.ValidateDraft(draft); err != nil {
				_ = draft.Image.Release()
				return err
			}
			return apply(cmd, app, c, confirm.Add{Draft: draft}, yes)
		},
	}
	flags = cmdutil.AddProductFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm without asking")

	return cmd
}
