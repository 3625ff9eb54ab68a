// Package auth provides the login, logout and session commands.
package auth

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/internal/cmd/alerts"
	"github.com/agentstation/catalogadmin/internal/cmd/globals"
	"github.com/agentstation/catalogadmin/internal/cmd/prompt"
	"github.com/agentstation/catalogadmin/pkg/errors"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(app appcontext.Interface) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:     "login",
		GroupID: "session",
		Short:   "Sign in to the catalog backend",
		Long: `Login exchanges a username and password for a session token and stores
the token in the configured session store. The password is read without
echo from the terminal, or from standard input with --password-stdin.`,
		Args: cobra.NoArgs,
		Example: `  catalogadmin login
  catalogadmin login -u admin
  echo "$PASSWORD" | catalogadmin login -u admin --password-stdin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			in, errOut := cmd.InOrStdin(), cmd.ErrOrStderr()

			var err error
			if username == "" {
				if username, err = prompt.Line(in, errOut, "Username"); err != nil {
					return err
				}
			}
			var password string
			if passwordStdin {
				password, err = prompt.Line(in, errOut, "Password")
			} else {
				password, err = prompt.Password(in, errOut, "Password")
			}
			if err != nil {
				return err
			}
			if strings.TrimSpace(username) == "" || password == "" {
				return errors.NewValidationError("username", username, "username and password are required")
			}

			gw, err := app.Gateway()
			if err != nil {
				return err
			}
			if _, err := gw.Login(ctx, username, password); err != nil {
				return err
			}

			if globals.Parse(cmd).Quiet {
				return nil
			}
			return alerts.NewWriterTo(errOut).WriteAlert(alerts.NewSuccess("Logged in as " + username))
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when empty)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from standard input")

	return cmd
}
