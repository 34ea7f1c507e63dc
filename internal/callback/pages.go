package callback

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

const (
	pageLogin     = "login"
	pageFailed    = "failed"
	pageDashboard = "dashboard"
)

type loginView struct {
	SSOLoginURL string
	Email       string
	Sent        bool
	Message     string
}

type failedView struct {
	Title   string
	Message string
	Back    string
}

type dashboardView struct {
	Email       string
	WorkspaceID string
}

var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!doctype html><html><head><meta charset="utf-8"><title>nullslot</title>
<style>body{font-family:sans-serif;max-width:28rem;margin:4rem auto}</style></head><body>{{end}}
{{define "foot"}}</body></html>{{end}}

{{define "login"}}{{template "head"}}
<h1>Log in</h1>
{{if .Sent}}<p>{{.Message}}</p>{{else}}
<form method="post" action="/login">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<button type="submit">Send magic link</button>
</form>
{{with .Message}}<p>{{.}}</p>{{end}}
<p>or <a href="{{.SSOLoginURL}}">log in with SSO</a></p>
{{end}}
{{template "foot"}}{{end}}

{{define "failed"}}{{template "head"}}
<h2>{{.Title}}</h2>
<p>{{.Message}}</p>
<p><a href="{{.Back}}">Back to Login</a></p>
{{template "foot"}}{{end}}

{{define "dashboard"}}{{template "head"}}
<h1>Dashboard</h1>
<p>Welcome, <strong>{{.Email}}</strong>!</p>
{{with .WorkspaceID}}<p>Workspace: {{.}}</p>{{end}}
<p>You can close this window and return to the terminal.</p>
<form method="post" action="/logout"><button type="submit">Logout</button></form>
{{template "foot"}}{{end}}
`))

type pageRenderer struct{}

func (pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	if pages.Lookup(name) == nil {
		return fmt.Errorf("unknown page %q", name)
	}
	return pages.ExecuteTemplate(w, name, data)
}
