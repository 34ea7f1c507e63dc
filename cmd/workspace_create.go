package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/workspace"
)

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace",
	Long: `Create a workspace owned by the logged-in identity.

Examples:
  nullslot workspace create "Research"
  nullslot workspace create "Research" --switch`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: requireLogin,
	RunE:    runWorkspaceCreate,
}

func init() {
	workspaceCmd.AddCommand(workspaceCreateCmd)

	workspaceCreateCmd.Flags().Bool("switch", false, "select the new workspace")
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	a := current
	switchTo, _ := cmd.Flags().GetBool("switch")

	dialog := workspace.NewCreateDialog(a.workspaces)
	ws, err := dialog.Submit(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyName) {
			return usageError("workspace name must not be blank")
		}
		return output.Classify(err)
	}

	a.printer.Success("Created workspace %s (%s)", a.printer.Bold(ws.Name), ws.ID)

	if switchTo {
		if err := a.workspaces.Select(cmd.Context(), ws.ID); err != nil {
			return output.Classify(err)
		}
		a.printer.Success("Switched to %s", ws.Name)
		return nil
	}
	a.printer.PrintHints("workspace create")
	return nil
}
