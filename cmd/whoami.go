package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/tokeninfo"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long: `Show who you are logged in as and which workspace is selected.

Examples:
  nullslot whoami           # Show the stored session
  nullslot whoami --check   # Ask the backend whether the token still works
  nullslot whoami --json    # Output as JSON`,
	Args:    cobra.NoArgs,
	PreRunE: requireLogin,
	RunE:    runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("check", false, "verify the token against the backend")
	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

type whoamiView struct {
	ID          string     `json:"id,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role,omitempty"`
	WorkspaceID string     `json:"workspaceId,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Expired     bool       `json:"expired"`
	Verified    bool       `json:"verified"`
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a := current
	check, _ := cmd.Flags().GetBool("check")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	snap := a.session.Snapshot()
	info := tokeninfo.Inspect(snap.Token)
	now := time.Now()

	view := whoamiView{
		WorkspaceID: snap.WorkspaceID,
		Expired:     info.Expired(now),
	}
	if snap.Identity != nil {
		view.ID = snap.Identity.ID
		view.Email = snap.Identity.Email
		view.Role = snap.Identity.Role
	}
	if view.Role == "" {
		view.Role = info.Role
	}
	if !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt
		view.ExpiresAt = &exp
	}

	if check {
		me, err := a.auth.Me(cmd.Context())
		if err != nil {
			cliErr := output.Classify(err)
			if cliErr.ExitCode == output.ExitAuthRequired {
				cliErr.Detail = "The stored token was rejected by the backend."
			}
			return cliErr
		}
		view.Verified = true
		view.ID, view.Email, view.Role = me.ID, me.Email, me.Role
	}

	if jsonOutput {
		enc := json.NewEncoder(a.printer.Out())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	a.printer.Header("Session")
	table := a.printer.NewTable([]string{"KEY", "VALUE"})
	table.AddRow([]string{"email", orDash(view.Email)})
	table.AddRow([]string{"id", orDash(view.ID)})
	table.AddRow([]string{"role", orDash(view.Role)})
	table.AddRow([]string{"workspace", orDash(view.WorkspaceID)})
	table.AddRow([]string{"token expires", expiryText(info, now)})
	if check {
		table.AddRow([]string{"verified", "yes"})
	}
	if err := table.Render(); err != nil {
		return err
	}

	if view.Expired {
		a.printer.Warning("The token has expired. Run 'nullslot login' to start a new session.")
	}
	a.printer.PrintHints("whoami")
	return nil
}

func expiryText(info tokeninfo.Info, now time.Time) string {
	switch {
	case info.Opaque, info.ExpiresAt.IsZero():
		return "unknown"
	case info.Expired(now):
		return fmt.Sprintf("%s (expired)", info.ExpiresAt.Local().Format(time.RFC3339))
	default:
		return fmt.Sprintf("%s (in %s)", info.ExpiresAt.Local().Format(time.RFC3339), info.Remaining(now).Round(time.Second))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
