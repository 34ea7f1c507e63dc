package output

import (
	"strings"
	"testing"
)

func TestPrintHints_KnownCommand(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	p.PrintHints("workspace list")

	out := stdout.String()
	if !strings.Contains(out, "See also") {
		t.Errorf("expected 'See also' in output, got: %q", out)
	}
	if !strings.Contains(out, "nullslot workspace switch <id>") {
		t.Errorf("expected switch hint for 'workspace list', got: %q", out)
	}
}

func TestPrintHints_UnknownCommand(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	p.PrintHints("nonexistent")

	if stdout.Len() != 0 {
		t.Errorf("expected no output for unknown command, got: %q", stdout.String())
	}
}

func TestPrintHints_Quiet(t *testing.T) {
	p, stdout, _ := newTestPrinter(true)

	p.PrintHints("logout")

	if stdout.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got: %q", stdout.String())
	}
}
