package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fakeAPI answers GraphQL operations by name.
type fakeAPI struct {
	mu      sync.Mutex
	replies map[string]string
	calls   []string
	headers []http.Header
}

func (f *fakeAPI) reply(op, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[op] = body
}

func (f *fakeAPI) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) lastHeader() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.headers) == 0 {
		return nil
	}
	return f.headers[len(f.headers)-1]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OperationName string `json:"operationName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.calls = append(f.calls, req.OperationName)
	f.headers = append(f.headers, r.Header.Clone())
	body, ok := f.replies[req.OperationName]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

type cli struct {
	api *fakeAPI
	out *bytes.Buffer
	err *bytes.Buffer
}

// setupCLI points the CLI at a fake API and a session file under a temp dir.
func setupCLI(t *testing.T) *cli {
	t.Helper()
	api := &fakeAPI{replies: make(map[string]string)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("NULLSLOT_API_BASE_URL", srv.URL)
	t.Setenv("NULLSLOT_STORE_BACKEND", "file")
	t.Setenv("NULLSLOT_STORE_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("NULLSLOT_OUTPUT_COLORS", "false")
	t.Setenv("NULLSLOT_LOGGING_LEVEL", "error")

	cfgFile, verbose, quiet, colorFlag = "", false, false, "never"
	resetFlags(rootCmd)
	t.Cleanup(closeApp)

	return &cli{api: api, out: new(bytes.Buffer), err: new(bytes.Buffer)}
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (c *cli) run(args ...string) error {
	c.out.Reset()
	c.err.Reset()
	rootCmd.SetOut(c.out)
	rootCmd.SetErr(c.err)
	rootCmd.SetArgs(args)
	resetFlags(rootCmd)
	colorFlag = "never"
	return Execute()
}

// login redeems a magic link against the fake API.
func (c *cli) login(t *testing.T) {
	t.Helper()
	c.api.reply("LoginWithMagicLink", `{"data":{"loginWithMagicLink":{"token":"tok-1","user":{"id":"u1","email":"a@b.com","role":"user"}}}}`)
	if err := c.run("login", "redeem", "abc"); err != nil {
		t.Fatalf("login redeem failed: %v", err)
	}
}
