// Package cmd contains all CLI commands for nullslot
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/guard"
	"github.com/marcjazz/nullslot/internal/logger"
	"github.com/marcjazz/nullslot/internal/output"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	colorFlag string
	version   = "dev"

	// current is the composition root of the running command.
	current *app
)

// annotationNoSession marks commands that run without opening the session store.
const annotationNoSession = "nullslot/no-session"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nullslot",
	Short: "Sign in to the nullslot API and manage your workspace",
	Long: `nullslot keeps an authenticated session with the nullslot API.

Log in with a magic link sent to your email or through single sign-on, then
pick the workspace your requests run against.

Example usage:
  nullslot login --email me@example.com   # Request a magic link
  nullslot login redeem '<link>'          # Finish logging in with the link
  nullslot login sso                      # Log in through single sign-on
  nullslot whoami                         # Show the current session
  nullslot workspace list                 # List your workspaces`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			return &output.CLIError{
				Summary:  "--verbose and --quiet cannot be used together",
				ExitCode: output.ExitUsageError,
			}
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		current = a
		cmd.SetContext(logger.WithCommand(cmd.Context(), commandName(cmd)))
		return nil
	},
}

// Execute runs the command tree and releases what the command opened.
func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// Printer returns the printer of the last command, or a plain one when the
// command never got that far.
func Printer() *output.Printer {
	if current != nil && current.printer != nil {
		return current.printer
	}
	return output.NewPrinter(false)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .nullslot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, or never")
}

func closeApp() {
	if current != nil {
		current.close()
	}
}

// requireLogin is the PreRunE of commands that need a session.
var requireLogin = guard.RequireLogin(func() domain.SessionSource {
	if current == nil || current.session == nil {
		return nil
	}
	return current.session
})

// commandName is the command path without the binary name.
func commandName(cmd *cobra.Command) string {
	path := cmd.CommandPath()
	root := cmd.Root().Name()
	if len(path) > len(root) {
		return path[len(root)+1:]
	}
	return path
}

func usageError(format string, args ...any) *output.CLIError {
	return &output.CLIError{Summary: fmt.Sprintf(format, args...), ExitCode: output.ExitUsageError}
}
