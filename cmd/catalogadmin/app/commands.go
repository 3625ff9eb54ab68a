package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/cmd/catalogadmin/cmd/auth"
	"github.com/agentstation/catalogadmin/cmd/catalogadmin/cmd/browse"
	"github.com/agentstation/catalogadmin/cmd/catalogadmin/cmd/products"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Catalog commands
	rootCmd.AddCommand(products.NewCommand(a))
	rootCmd.AddCommand(browse.NewCommand(a))

	// Session commands
	rootCmd.AddCommand(auth.NewLoginCommand(a))
	rootCmd.AddCommand(auth.NewLogoutCommand(a))
	rootCmd.AddCommand(auth.NewSessionCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("catalogadmin %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
