package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/output"
)

var workspaceSwitchCmd = &cobra.Command{
	Use:     "switch <id>",
	Aliases: []string{"use"},
	Short:   "Select a workspace",
	Long: `Select the workspace subsequent requests run against. The id must be one
of your workspaces; see 'nullslot workspace list'.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE:    runWorkspaceSwitch,
}

var workspaceClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Deselect the current workspace",
	Args:    cobra.NoArgs,
	PreRunE: requireLogin,
	RunE:    runWorkspaceClear,
}

func init() {
	workspaceCmd.AddCommand(workspaceSwitchCmd)
	workspaceCmd.AddCommand(workspaceClearCmd)
}

func runWorkspaceSwitch(cmd *cobra.Command, args []string) error {
	a := current
	if err := a.workspaces.Select(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrUnknownWorkspace) {
			return &output.CLIError{
				Summary:    err.Error(),
				Suggestion: "Run 'nullslot workspace list --refresh' to see your workspaces",
				ExitCode:   output.ExitUsageError,
			}
		}
		return output.Classify(err)
	}
	a.printer.Success("Switched to workspace %s", args[0])
	a.printer.PrintHints("workspace switch")
	return nil
}

func runWorkspaceClear(cmd *cobra.Command, args []string) error {
	a := current
	if err := a.workspaces.Clear(cmd.Context()); err != nil {
		return output.Classify(err)
	}
	a.printer.Success("No workspace selected")
	return nil
}
