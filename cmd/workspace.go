package cmd

import (
	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage the selected workspace",
	Long: `List, create and select the workspace your requests run against.

The selected workspace is sent as X-Workspace-ID on every request.

Examples:
  nullslot workspace list
  nullslot workspace create "Research"
  nullslot workspace switch 3f2a...
  nullslot workspace clear`,
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
}
