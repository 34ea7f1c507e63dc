package cmd

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/tokeninfo"
)

func TestWhoami_RequiresLogin(t *testing.T) {
	c := setupCLI(t)

	err := c.run("whoami")
	if got := exitCode(t, err); got != output.ExitAuthRequired {
		t.Errorf("exit code = %d, want %d", got, output.ExitAuthRequired)
	}
	if n := len(c.api.calls); n != 0 {
		t.Errorf("backend called %d times, want 0", n)
	}
}

func TestWhoami_Table(t *testing.T) {
	c := setupCLI(t)
	c.login(t)

	if err := c.run("whoami"); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	out := c.out.String()
	for _, want := range []string{"a@b.com", "u1", "unknown"} {
		if !strings.Contains(out, want) {
			t.Errorf("whoami output missing %q, got:\n%s", want, out)
		}
	}
}

func TestWhoami_Check(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("Me", `{"data":{"me":{"id":"u1","email":"a@b.com","role":"admin"}}}`)

	if err := c.run("whoami", "--check", "--json"); err != nil {
		t.Fatalf("whoami --check failed: %v", err)
	}

	var view whoamiView
	if err := json.Unmarshal(c.out.Bytes(), &view); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, c.out.String())
	}
	if !view.Verified || view.Role != "admin" {
		t.Errorf("view = %+v, want verified admin", view)
	}
	if got := c.api.lastHeader().Get("Authorization"); got != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want stored token", got)
	}
}

func TestWhoami_CheckRejected(t *testing.T) {
	c := setupCLI(t)
	c.login(t)
	c.api.reply("Me", `{"errors":[{"message":"token revoked","extensions":{"code":"UNAUTHENTICATED"}}]}`)

	if got := exitCode(t, c.run("whoami", "--check")); got != output.ExitAuthRequired {
		t.Errorf("exit code = %d, want %d", got, output.ExitAuthRequired)
	}
}

func TestExpiryText(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	signed := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokeninfo.Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		})
		s, err := tok.SignedString([]byte("k"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"opaque", "tok-1", "unknown"},
		{"expired", signed(now.Add(-time.Hour)), "(expired)"},
		{"valid", signed(now.Add(time.Hour)), "(in 1h0m0s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expiryText(tokeninfo.Inspect(tt.token), now)
			if !strings.Contains(got, tt.want) {
				t.Errorf("expiryText = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
