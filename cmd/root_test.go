package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/marcjazz/nullslot/internal/output"
)

func TestRootCmd_Help(t *testing.T) {
	c := setupCLI(t)

	if err := c.run("--help"); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := c.out.String()
	for _, sub := range []string{"login", "logout", "whoami", "workspace", "config", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	c := setupCLI(t)

	if err := c.run("nonexistent-command"); err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
}

func TestRootCmd_VerboseAndQuiet(t *testing.T) {
	c := setupCLI(t)

	err := c.run("--verbose", "--quiet", "whoami")
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %v", err)
	}
	if cliErr.ExitCode != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, output.ExitUsageError)
	}
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	c := setupCLI(t)
	t.Setenv("NULLSLOT_STORE_BACKEND", "floppy")

	err := c.run("whoami")
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %v", err)
	}
	if cliErr.ExitCode != output.ExitConfigError {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, output.ExitConfigError)
	}
}

func TestCommandName(t *testing.T) {
	setupCLI(t)

	if got := commandName(workspaceListCmd); got != "workspace list" {
		t.Errorf("commandName = %q, want %q", got, "workspace list")
	}
	if got := commandName(rootCmd); got != "nullslot" {
		t.Errorf("commandName(root) = %q, want %q", got, "nullslot")
	}
}

func TestRootCmd_LogsCarryCommandName(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("MyWorkspaces", `{"data":{"myWorkspaces":[]}}`)
	t.Setenv("NULLSLOT_LOGGING_FORMAT", "json")

	if err := c.run("--verbose", "workspace", "list"); err != nil {
		t.Fatalf("workspace list failed: %v", err)
	}

	logs := c.err.String()
	if !strings.Contains(logs, `"nullslot.command":"workspace list"`) {
		t.Errorf("logs missing command tag, got:\n%s", logs)
	}
}
