package products

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/cmdutil"
	"github.com/agentstation/catalogadmin/internal/cmd/globals"
	"github.com/agentstation/catalogadmin/internal/cmd/output"
	"github.com/agentstation/catalogadmin/internal/cmd/table"
	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/listing"
)

// NewListCommand creates the products list subcommand.
func NewListCommand(app appcontext.Interface) *cobra.Command {
	var flags *cmdutil.ListFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show one page of the product table",
		Args:    cobra.NoArgs,
		Example: `  catalogadmin products list
  catalogadmin products list --category Dogs --sort stock:desc
  catalogadmin products list --search toy -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, app, flags)
		},
	}
	flags = cmdutil.AddListFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, app appcontext.Interface, flags *cmdutil.ListFlags) error {
	c, err := load(cmd.Context(), app)
	if err != nil {
		return err
	}

	pageSize := flags.PageSize
	if pageSize <= 0 {
		pageSize = app.PageSize()
	}
	if flags.All {
		pageSize = max(c.gateway.Len(), 1)
	}
	if pageSize > constants.MaxPageSize && !flags.All {
		pageSize = constants.MaxPageSize
	}

	view := listing.NewView(c.gateway, pageSize)
	if err := flags.Apply(view); err != nil {
		return err
	}

	format, err := globals.Parse(cmd).OutputFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	rows := view.Rows()
	data := table.ProductsToTableData(rows, view.Priorities(), format == output.FormatWide)
	data.Footer = table.PageFooter(view.Page(), view.TotalPages(), view.Len())
	if view.TotalPages() > 1 {
		data.Footer = append(data.Footer, table.PageStrip(view.Window(constants.PaginationRadius)))
	}
	if f := view.Filter(); f.Active() {
		data.Footer = append(data.Footer, f.String())
	}

	return output.Print(cmd.OutOrStdout(), format, data, rows)
}
