// Package guard gates protected routes and commands on the presence of a
// session token.
package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/route"
)

// Decision is the outcome of evaluating access to a protected target.
type Decision struct {
	Allow    bool
	Redirect string
	// Replace asks for the current location to be replaced, so going back
	// does not return to the protected target.
	Replace bool
}

// Decide allows access iff the session carries a token. Identity presence is
// not checked.
func Decide(s domain.Session) Decision {
	if s.Token != "" {
		return Decision{Allow: true}
	}
	return Decision{Redirect: route.Login, Replace: true}
}

// RequireSession is echo middleware for protected pages. A denied request is
// answered with 303 See Other to the login page and is not cached.
func RequireSession(src domain.SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := Decide(src.Snapshot())
			if d.Allow {
				return next(c)
			}
			c.Response().Header().Set("Cache-Control", "no-store")
			return c.Redirect(http.StatusSeeOther, d.Redirect)
		}
	}
}

// RequireLogin returns a cobra PreRunE that refuses to run without a session.
func RequireLogin(src func() domain.SessionSource) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		s := src()
		if s == nil || !Decide(s.Snapshot()).Allow {
			return output.AuthRequired()
		}
		return nil
	}
}
