package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/output"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long:  `Forget the identity, token and workspace selection of the current session.`,
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := current
	wasIn := a.session.Snapshot().Authenticated()

	if err := a.session.Logout(cmd.Context()); err != nil {
		return &output.CLIError{
			Summary:    "logged out, but the stored session could not be removed",
			Detail:     err.Error(),
			Suggestion: "Check permissions of store.path with 'nullslot config'",
			ExitCode:   output.ExitGeneral,
		}
	}

	if wasIn {
		a.printer.Success("Logged out")
	} else {
		a.printer.Info("Not logged in")
	}
	a.printer.PrintHints("logout")
	return nil
}
