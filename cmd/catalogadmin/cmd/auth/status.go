package auth

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/globals"
	"github.com/agentstation/catalogadmin/internal/cmd/output"
	"github.com/agentstation/catalogadmin/internal/cmd/table"
)

// NewSessionCommand creates the session command that reports the stored
// token. The token claims are decoded for display only; the backend
// remains the judge of validity.
func NewSessionCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "session",
		Aliases: []string{"whoami", "status"},
		GroupID: "session",
		Short:   "Show the stored session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.Session()
			if err != nil {
				return err
			}
			status := sess.Status(time.Now())

			format, err := globals.Parse(cmd).OutputFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			data := table.SessionToTableData(sess.Store().Name(), status)
			return output.Print(cmd.OutOrStdout(), format, data, status)
		},
	}
}
