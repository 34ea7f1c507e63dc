package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/flow"
	"github.com/marcjazz/nullslot/internal/logger"
	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/route"
)

var loginRedeemCmd = &cobra.Command{
	Use:   "redeem <link-or-token>",
	Short: "Log in with a magic link",
	Long: `Redeem the one-time token of a magic link and start a session.

Accepts the full link from the email or just its token.

Examples:
  nullslot login redeem 'http://localhost:5173/magic-link-callback?token=abc'
  nullslot login redeem abc`,
	Args: cobra.ExactArgs(1),
	RunE: runLoginRedeem,
}

func init() {
	loginCmd.AddCommand(loginRedeemCmd)
}

func runLoginRedeem(cmd *cobra.Command, args []string) error {
	a := current
	link, err := route.ParseCallback(args[0], route.MagicLinkCallback)
	if err != nil {
		return usageError("cannot read link: %v", err)
	}

	ctx := logger.WithFlow(cmd.Context(), "magic_link")
	m := flow.NewMagicLinkRedemption(a.auth, a.workspaces, link, a.logger)
	return reportOutcome(a, "login redeem", m.Trigger(ctx))
}

// reportOutcome prints a terminal login outcome or converts it into an error.
func reportOutcome(a *app, command string, out flow.Outcome) error {
	switch out.State {
	case flow.StateAuthenticated:
		a.printer.Success("Logged in as %s", out.Identity.Email)
		a.printer.PrintHints(command)
		return nil
	case flow.StateInvalidLink:
		return &output.CLIError{
			Summary:    "invalid link",
			Detail:     "No token found in the link. Please make sure you copied the whole link.",
			Suggestion: "Run 'nullslot login --email <address>' to get a new link",
			ExitCode:   output.ExitUsageError,
		}
	case flow.StateNoToken:
		return &output.CLIError{
			Summary:    "SSO login failed",
			Detail:     "No token found in the redirect.",
			Suggestion: "Run 'nullslot login sso' to try again",
			ExitCode:   output.ExitAuthRequired,
		}
	default:
		err := out.Err
		if err == nil {
			err = errors.New(out.State.String())
		}
		return &output.CLIError{
			Summary:    "login failed",
			Detail:     err.Error(),
			Suggestion: "Run 'nullslot login' to start over",
			ExitCode:   loginExitCode(output.Classify(err).ExitCode),
		}
	}
}

func loginExitCode(classified int) int {
	switch classified {
	case output.ExitServerError, output.ExitTimeout:
		return classified
	default:
		return output.ExitAuthRequired
	}
}
