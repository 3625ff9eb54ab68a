// Package products provides the commands that list and change catalog products.
package products

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
)

// NewCommand creates the products command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		GroupID: "catalog",
		Short:   "List and manage catalog products",
		Long: `Products reads the catalog from the backend and changes it.

Every change shows what will happen and asks for confirmation before it is
sent. Pass --yes to confirm without asking.`,
		Example: `  catalogadmin products list --sort price:desc,name
  catalogadmin products list --search bone --page 2
  catalogadmin products add --name "Chew Toy" --category Dogs --price 4.5
  catalogadmin products edit 12 --stock ""
  catalogadmin products delete 12 --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewListCommand(app))
	cmd.AddCommand(NewCategoriesCommand(app))
	cmd.AddCommand(NewSuggestCommand(app))
	cmd.AddCommand(NewAddCommand(app))
	cmd.AddCommand(NewEditCommand(app))
	cmd.AddCommand(NewDeleteCommand(app))

	return cmd
}
