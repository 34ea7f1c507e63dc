package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/flow"
	"github.com/marcjazz/nullslot/internal/logger"
	"github.com/marcjazz/nullslot/internal/output"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Request a magic link by email",
	Long: `Request a one-time login link for your email address.

The link arrives by email. Paste it into 'nullslot login redeem', or open it
in a browser while 'nullslot login sso' is waiting when the link points at
the local callback address.

Examples:
  nullslot login --email me@example.com
  nullslot login redeem 'http://localhost:5173/magic-link-callback?token=...'
  nullslot login sso`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "email address to send the link to")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := current
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		return &output.CLIError{
			Summary:    "an email address is required",
			Suggestion: "Run 'nullslot login --email <address>' or 'nullslot login sso'",
			ExitCode:   output.ExitUsageError,
		}
	}

	ctx := logger.WithFlow(cmd.Context(), "magic_link_request")
	r := flow.NewLinkRequester(a.auth, a.logger)
	if err := r.Request(ctx, email); err != nil {
		if errors.Is(err, flow.ErrInvalidEmail) {
			return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
		}
		cliErr := output.Classify(err)
		if cliErr.ExitCode == output.ExitGeneral {
			cliErr.Suggestion = "Check the address and run the command again"
		}
		return cliErr
	}

	a.printer.Success("%s", r.Message())
	a.printer.Info("Prefer single sign-on? Run 'nullslot login sso'.")
	a.printer.PrintHints("login")
	return nil
}
