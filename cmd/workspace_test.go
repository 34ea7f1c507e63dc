package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/marcjazz/nullslot/internal/output"
)

const twoWorkspaces = `{"data":{"myWorkspaces":[{"id":"w1","name":"Research"},{"id":"w2","name":"Ops"}]}}`

func TestWorkspaceList_RequiresLogin(t *testing.T) {
	c := setupCLI(t)

	if got := exitCode(t, c.run("workspace", "list")); got != output.ExitAuthRequired {
		t.Errorf("exit code = %d, want %d", got, output.ExitAuthRequired)
	}
}

func TestWorkspaceList_MarksSelected(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("MyWorkspaces", twoWorkspaces)

	if err := c.run("workspace", "switch", "w2"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if err := c.run("workspace", "list", "--json"); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var views []workspaceView
	if err := json.Unmarshal(c.out.Bytes(), &views); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, c.out.String())
	}
	if len(views) != 2 {
		t.Fatalf("got %d workspaces, want 2", len(views))
	}
	if views[0].Selected || !views[1].Selected {
		t.Errorf("selection = %v/%v, want w2 selected", views[0].Selected, views[1].Selected)
	}
	if got := c.api.lastHeader().Get("X-Workspace-ID"); got != "w2" {
		t.Errorf("X-Workspace-ID = %q, want w2", got)
	}
}

func TestWorkspaceList_Table(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("MyWorkspaces", twoWorkspaces)

	if err := c.run("workspace", "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	out := c.out.String()
	for _, want := range []string{"Research", "Ops", "w1"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q, got:\n%s", want, out)
		}
	}
}

func TestWorkspaceSwitch_Unknown(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("MyWorkspaces", twoWorkspaces)

	if got := exitCode(t, c.run("workspace", "switch", "nope")); got != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", got, output.ExitUsageError)
	}
}

func TestWorkspaceCreate_Switch(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("CreateWorkspace", `{"data":{"createWorkspace":{"id":"w3","name":"New Team","ownerId":"u1"}}}`)
	c.api.reply("MyWorkspaces", `{"data":{"myWorkspaces":[{"id":"w3","name":"New Team"}]}}`)

	if err := c.run("workspace", "create", "New", "Team", "--switch"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	out := c.out.String()
	if !strings.Contains(out, "Created workspace New Team (w3)") {
		t.Errorf("missing create line, got:\n%s", out)
	}
	if !strings.Contains(out, "Switched to New Team") {
		t.Errorf("missing switch line, got:\n%s", out)
	}
}

func TestWorkspaceCreate_BlankName(t *testing.T) {
	c := setupCLI(t)
	c.login(t)

	if got := exitCode(t, c.run("workspace", "create", "   ")); got != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", got, output.ExitUsageError)
	}
	if n := c.api.called("CreateWorkspace"); n != 0 {
		t.Errorf("CreateWorkspace called %d times, want 0", n)
	}
}

func TestWorkspaceClear(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("MyWorkspaces", twoWorkspaces)

	if err := c.run("workspace", "switch", "w1"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if err := c.run("workspace", "clear"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := c.run("whoami", "--json"); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if strings.Contains(c.out.String(), "workspaceId") {
		t.Errorf("workspace still selected:\n%s", c.out.String())
	}
}

func TestLoginAsOtherIdentityDropsWorkspace(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("MyWorkspaces", twoWorkspaces)
	if err := c.run("workspace", "switch", "w1"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	c.api.reply("LoginWithMagicLink", `{"data":{"loginWithMagicLink":{"token":"tok-2","user":{"id":"u2","email":"other@b.com","role":"user"}}}}`)
	if err := c.run("login", "redeem", "def"); err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if err := c.run("whoami", "--json"); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	out := c.out.String()
	if !strings.Contains(out, "other@b.com") {
		t.Errorf("expected the new identity, got:\n%s", out)
	}
	if strings.Contains(out, "workspaceId") {
		t.Errorf("workspace of the previous identity still selected:\n%s", out)
	}
}
