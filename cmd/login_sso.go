package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/callback"
	"github.com/marcjazz/nullslot/internal/gateway"
	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/route"
)

var loginSSOCmd = &cobra.Command{
	Use:   "sso",
	Short: "Log in through single sign-on",
	Long: `Start a local callback server, open the SSO login page and wait for the
identity provider to redirect back.

The backend must redirect to this machine's callback address, for example
http://127.0.0.1:8765/oidc-callback. Magic links pointing at
http://127.0.0.1:8765/magic-link-callback are accepted while waiting, too.

Examples:
  nullslot login sso
  nullslot login sso --no-browser --timeout 2m`,
	Args: cobra.NoArgs,
	RunE: runLoginSSO,
}

func init() {
	loginCmd.AddCommand(loginSSOCmd)

	loginSSOCmd.Flags().Bool("no-browser", false, "print the login URL instead of opening a browser")
	loginSSOCmd.Flags().Duration("timeout", 5*time.Minute, "how long to wait for the redirect")
}

// openBrowser is replaced in tests.
var openBrowser = func(url string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		c = exec.Command("xdg-open", url)
	}
	return c.Start()
}

func runLoginSSO(cmd *cobra.Command, args []string) error {
	a := current
	noBrowser, _ := cmd.Flags().GetBool("no-browser")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	srv := callback.New(callback.Config{
		ListenAddr:  a.cfg.Callback.ListenAddr,
		SSOLoginURL: a.cfg.SSOLoginURL(),
		Linger:      2 * time.Second,
		Telemetry:   a.cfg.Telemetry.Enabled,
		ServiceName: a.cfg.Telemetry.ServiceName,
	}, callback.Deps{
		Session:  a.session,
		Sink:     a.workspaces,
		Sender:   a.auth,
		Redeemer: a.auth,
		Lookup:   a.auth,
		Bearer:   gateway.WithBearer,
		Logger:   a.logger,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	loginURL := a.cfg.SSOLoginURL()
	a.printer.Info("Waiting for the SSO redirect on http://%s%s", a.cfg.Callback.ListenAddr, route.OIDCCallback)
	if noBrowser || openBrowser(loginURL) != nil {
		// --quiet still prints the URL.
		if a.printer.IsQuiet() {
			fmt.Fprintln(cmd.ErrOrStderr(), loginURL)
		} else {
			a.printer.Print("Open this URL to log in:\n  %s", loginURL)
		}
	}

	out, err := srv.Await(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &output.CLIError{
				Summary:    "timed out waiting for the SSO redirect",
				Suggestion: "Run 'nullslot login sso --timeout 10m' to wait longer",
				ExitCode:   output.ExitTimeout,
			}
		}
		return &output.CLIError{
			Summary:    "callback server failed",
			Detail:     err.Error(),
			Suggestion: "Set callback.listen_addr to a free address",
			ExitCode:   output.ExitConfigError,
		}
	}
	return reportOutcome(a, "login sso", out)
}
