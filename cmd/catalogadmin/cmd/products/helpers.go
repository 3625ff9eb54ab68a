package products

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/alerts"
	"github.com/agentstation/catalogadmin/internal/cmd/cmdutil"
	"github.com/agentstation/catalogadmin/internal/cmd/globals"
	"github.com/agentstation/catalogadmin/internal/cmd/output"
	"github.com/agentstation/catalogadmin/internal/cmd/prompt"
	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/gateway"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// catalog is what a command needs once the product list is loaded.
type catalog struct {
	session *session.Session
	gateway *gateway.Gateway
}

// load checks the session and fetches the product list.
func load(ctx context.Context, app appcontext.Interface) (*catalog, error) {
	sess, err := app.Session()
	if err != nil {
		return nil, err
	}
	if err := cmdutil.RequireSession(sess); err != nil {
		return nil, err
	}
	gw, err := app.Gateway()
	if err != nil {
		return nil, err
	}
	if _, err := gw.List(ctx); err != nil {
		return nil, errors.NewResourceError("load", "products", "", cmdutil.CheckAuth(ctx, sess, err))
	}
	return &catalog{session: sess, gateway: gw}, nil
}

// lookup returns the loaded entry with the id given as argument.
func (c *catalog) lookup(arg string) (products.Entry, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return products.Entry{}, errors.NewValidationError("id", arg, "product id must be a positive number")
	}
	entry, ok := c.gateway.Get(id)
	if !ok {
		return products.Entry{}, errors.NewNotFoundError("product", arg)
	}
	return entry, nil
}

// apply stages action, shows its confirmation and sends it once the
// operator agrees. With yes the question is skipped.
func apply(cmd *cobra.Command, app appcontext.Interface, c *catalog, action confirm.Action, yes bool) error {
	ctx := cmd.Context()
	wf, err := app.Workflow()
	if err != nil {
		return err
	}
	if err := wf.Stage(action); err != nil {
		return err
	}

	flags := globals.Parse(cmd)
	format, err := flags.OutputFormat(app.OutputFormat())
	if err != nil {
		wf.Cancel()
		return err
	}
	notices := alerts.NewFormatWriter(cmd.ErrOrStderr(), format)

	summary := confirm.Describe(action)
	if !yes {
		printSummary(cmd.ErrOrStderr(), summary)
		if !prompt.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), summary.Question) {
			wf.Cancel()
			return notices.WriteAlert(alerts.NewInfo("Cancelled, nothing was changed"))
		}
	}

	entry, err := wf.Confirm(ctx)
	err = cmdutil.CheckAuth(ctx, c.session, err)
	if werr := notices.WriteAlert(alerts.ForOutcome(action.Kind(), entry, err)); werr != nil && err == nil {
		return werr
	}
	if err != nil {
		return err
	}

	if action.Kind() == confirm.KindDelete || flags.Quiet {
		return nil
	}
	return output.Print(cmd.OutOrStdout(), format, entryTable(entry), entry)
}

// printSummary writes the confirmation body without its question.
func printSummary(w io.Writer, s confirm.Summary) {
	fmt.Fprintln(w, s.Title)
	if len(s.Changes) > 0 {
		fmt.Fprintln(w, "Changes:")
		for _, c := range s.Changes {
			marker := " "
			if c.Changed() {
				marker = "*"
			}
			fmt.Fprintf(w, " %s %-8s %s → %s\n", marker, c.Field+":", c.Before, c.After)
		}
	}
	for _, d := range s.Details {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// entryTable renders one entry as a property/value table.
func entryTable(e products.Entry) output.Data {
	return output.Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", strconv.Itoa(e.ID)},
			{"Name", products.FormatText(e.Name)},
			{"Category", products.FormatText(e.Category)},
			{"Stock", products.FormatStock(e.Stock)},
			{"Price", products.FormatPrice(e.Price)},
			{"Image", products.FormatText(e.ImageURL)},
		},
	}
}
