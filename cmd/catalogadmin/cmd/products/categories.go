package products

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/globals"
	"github.com/agentstation/catalogadmin/internal/cmd/output"
	"github.com/agentstation/catalogadmin/internal/cmd/table"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// NewCategoriesCommand creates the products categories subcommand.
func NewCategoriesCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "List product categories with their product counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := load(cmd.Context(), app)
			if err != nil {
				return err
			}
			format, err := globals.Parse(cmd).OutputFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			counts := products.CountByCategory(c.gateway.Entries())
			return output.Print(cmd.OutOrStdout(), format, table.CategoriesToTableData(counts), counts)
		},
	}
}
