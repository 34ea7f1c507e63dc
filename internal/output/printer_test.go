package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func newTestPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode: ColorNever,
		Quiet:     quiet,
		Out:       &stdout,
		Err:       &stderr,
	})
	return p, &stdout, &stderr
}

func TestParseColorMode_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColorMode_Invalid(t *testing.T) {
	if _, err := ParseColorMode("invalid"); err == nil {
		t.Error("expected error for invalid color mode, got nil")
	}
}

func TestResolveColors_Always(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !ResolveColors(ColorAlways, false) {
		t.Error("ResolveColors(ColorAlways, false) with NO_COLOR=1 should return true")
	}
}

func TestResolveColors_Never(t *testing.T) {
	if ResolveColors(ColorNever, true) {
		t.Error("ResolveColors(ColorNever, true) should return false")
	}
}

func TestResolveColors_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if ResolveColors(ColorAuto, true) {
		t.Error("ResolveColors(ColorAuto, true) with NO_COLOR set should return false")
	}
}

func TestResolveColors_AutoDefault(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "xterm-256color")

	if !ResolveColors(ColorAuto, true) {
		t.Error("ResolveColors(ColorAuto, true) should return true when no overrides")
	}
	if ResolveColors(ColorAuto, false) {
		t.Error("ResolveColors(ColorAuto, false) should return false when no overrides")
	}
}

func TestQuietMode_InfoSuppressed(t *testing.T) {
	p, stdout, stderr := newTestPrinter(true)

	p.Info("should not appear")
	p.Success("should not appear")
	p.Warning("should not appear")
	p.Header("should not appear")
	p.Print("should not appear")

	if stdout.Len() != 0 {
		t.Errorf("expected empty stdout in quiet mode, got: %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("expected empty stderr in quiet mode, got: %q", stderr.String())
	}
}

func TestQuietMode_ErrorNotSuppressed(t *testing.T) {
	p, _, stderr := newTestPrinter(true)

	p.Error("this should appear")

	if stderr.Len() == 0 {
		t.Error("Error output should not be suppressed in quiet mode")
	}
}

func TestSuccess_PlainPrefix(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	p.Success("logged in as %s", "a@b.com")

	if got := stdout.String(); got != "[OK] logged in as a@b.com\n" {
		t.Errorf("Success output = %q", got)
	}
}

func TestMarker(t *testing.T) {
	p, _, _ := newTestPrinter(false)
	if p.Marker(true) != "*" {
		t.Errorf("Marker(true) = %q, want *", p.Marker(true))
	}
	if p.Marker(false) != "" {
		t.Errorf("Marker(false) = %q, want empty", p.Marker(false))
	}
}

func TestTable_RendersRows(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	table := p.NewTable([]string{"ID", "NAME"})
	table.AddRow([]string{"ws-1", "Research"})
	if err := table.Render(); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "ws-1") || !strings.Contains(out, "Research") {
		t.Errorf("table output missing row: %q", out)
	}
}

func TestTable_QuietSuppressed(t *testing.T) {
	p, stdout, _ := newTestPrinter(true)

	table := p.NewTable([]string{"ID"})
	table.AddRow([]string{"ws-1"})
	if err := table.Render(); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("expected no table output in quiet mode, got: %q", stdout.String())
	}
}

func TestIsQuiet(t *testing.T) {
	if !NewPrinterWithOptions(PrinterOptions{Quiet: true}).IsQuiet() {
		t.Error("IsQuiet should return true")
	}
	if NewPrinterWithOptions(PrinterOptions{Quiet: false}).IsQuiet() {
		t.Error("IsQuiet should return false")
	}
}
