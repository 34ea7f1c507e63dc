package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestConfig_Default(t *testing.T) {
	c := setupCLI(t)

	if err := c.run("config"); err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	out := c.out.String()
	for _, key := range []string{"api.base_url", "store.path", "callback.listen_addr"} {
		if !strings.Contains(out, key) {
			t.Errorf("config output missing %q", key)
		}
	}
}

func TestConfig_JSON(t *testing.T) {
	c := setupCLI(t)
	t.Setenv("NULLSLOT_STORE_REDIS_PASSWORD", "hunter2")

	if err := c.run("config", "--json"); err != nil {
		t.Fatalf("config --json failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(c.out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if strings.Contains(c.out.String(), "hunter2") {
		t.Error("config --json leaked the redis password")
	}
}

func TestConfig_Path(t *testing.T) {
	c := setupCLI(t)
	if err := os.WriteFile(".nullslot.yaml", []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := c.run("config", "--path"); err != nil {
		t.Fatalf("config --path failed: %v", err)
	}
	if !strings.Contains(c.out.String(), ".nullslot.yaml") {
		t.Errorf("expected config file path, got:\n%s", c.out.String())
	}
}

func TestConfig_SkipsSessionStore(t *testing.T) {
	c := setupCLI(t)
	t.Setenv("NULLSLOT_STORE_PATH", "/nonexistent/dir/that/cannot/exist/session.json")

	if err := c.run("config"); err != nil {
		t.Fatalf("config should not open the session store: %v", err)
	}
}
