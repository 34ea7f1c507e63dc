package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func setupVersionTest(t *testing.T) *cli {
	t.Helper()
	c := setupCLI(t)
	SetBuildInfo("abc1234", "2026-02-06T07:16:38Z")
	return c
}

func TestVersionOutput_ContainsFields(t *testing.T) {
	c := setupVersionTest(t)

	if err := c.run("version"); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	out := c.out.String()
	for _, field := range []string{"commit:", "built:", "go version:", "platform:"} {
		if !strings.Contains(out, field) {
			t.Errorf("version output missing %q field. Got:\n%s", field, out)
		}
	}
}

func TestVersionShort(t *testing.T) {
	c := setupVersionTest(t)
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	if err := c.run("version", "--short"); err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if got := strings.TrimSpace(c.out.String()); got != "1.2.3" {
		t.Errorf("version --short = %q, want 1.2.3", got)
	}
}

func TestVersionJSON(t *testing.T) {
	c := setupVersionTest(t)

	if err := c.run("version", "--json"); err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal(c.out.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info["commit"] != "abc1234" {
		t.Errorf("commit = %q, want abc1234", info["commit"])
	}
}
