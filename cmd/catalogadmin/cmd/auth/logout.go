package auth

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/alerts"
)

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: "session",
		Short:   "Forget the stored session token",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.Session()
			if err != nil {
				return err
			}
			w := alerts.NewWriterTo(cmd.ErrOrStderr())
			if !sess.Authenticated() {
				return w.WriteAlert(alerts.NewInfo("Not logged in"))
			}
			if err := sess.Clear(cmd.Context()); err != nil {
				return err
			}
			return w.WriteAlert(alerts.NewSuccess("Logged out"))
		},
	}
}
