package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/workspace"
)

var workspaceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your workspaces",
	Long: `List the workspaces of the logged-in identity. The selected one is marked.

Examples:
  nullslot workspace list
  nullslot workspace list --refresh
  nullslot workspace list --json`,
	Args:    cobra.NoArgs,
	PreRunE: requireLogin,
	RunE:    runWorkspaceList,
}

func init() {
	workspaceCmd.AddCommand(workspaceListCmd)

	workspaceListCmd.Flags().Bool("refresh", false, "bypass the workspace cache")
	workspaceListCmd.Flags().Bool("json", false, "output as JSON")
}

type workspaceView struct {
	domain.Workspace
	Selected bool `json:"selected"`
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	a := current
	refresh, _ := cmd.Flags().GetBool("refresh")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	policy := workspace.CacheFirst
	if refresh {
		policy = workspace.NetworkOnly
	}
	list, err := a.workspaces.List(cmd.Context(), policy)
	if err != nil {
		return output.Classify(err)
	}

	selected := a.session.WorkspaceID()
	if jsonOutput {
		views := make([]workspaceView, 0, len(list))
		for _, w := range list {
			views = append(views, workspaceView{Workspace: w, Selected: w.ID == selected})
		}
		enc := json.NewEncoder(a.printer.Out())
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	if len(list) == 0 {
		a.printer.Info("You have no workspaces yet.")
		a.printer.PrintHints("workspace list")
		return nil
	}

	table := output.NewTableWithWriter(a.printer.Out(), []string{"", "ID", "NAME"})
	for _, w := range list {
		table.AddRow([]string{a.printer.Marker(w.ID == selected), w.ID, w.Name})
	}
	if err := table.Render(); err != nil {
		return err
	}
	a.printer.PrintHints("workspace list")
	return nil
}
