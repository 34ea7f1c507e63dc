package callback

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcjazz/nullslot/internal/flow"
	"github.com/marcjazz/nullslot/internal/logger"
	"github.com/marcjazz/nullslot/internal/route"
)

func (s *Server) handleRoot(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Redirect(http.StatusSeeOther, route.Login)
}

func (s *Server) handleLoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, pageLogin, loginView{SSOLoginURL: s.cfg.SSOLoginURL})
}

func (s *Server) handleRequestLink(c echo.Context) error {
	ctx := logger.WithFlow(c.Request().Context(), "magic_link_request")
	r := flow.NewLinkRequester(s.deps.Sender, s.deps.Logger)

	view := loginView{SSOLoginURL: s.cfg.SSOLoginURL, Email: c.FormValue("email")}
	status := http.StatusOK
	if err := r.Request(ctx, view.Email); err != nil {
		if errors.Is(err, flow.ErrInvalidEmail) {
			status = http.StatusUnprocessableEntity
		}
	}
	view.Sent = r.State() == flow.RequestSent
	view.Message = r.Message()
	return c.Render(status, pageLogin, view)
}

func (s *Server) handleMagicLink(c echo.Context) error {
	ctx := logger.WithFlow(c.Request().Context(), "magic_link")
	m := flow.NewMagicLinkRedemption(s.deps.Redeemer, s.deps.Sink, c.Request().URL, s.deps.Logger)
	return s.finish(c, m.Trigger(ctx))
}

func (s *Server) handleOIDC(c echo.Context) error {
	ctx := logger.WithFlow(c.Request().Context(), "oidc")
	v := flow.NewOIDCVerification(s.deps.Lookup, s.deps.Sink, s.deps.Bearer, c.Request().URL, s.deps.Logger)
	return s.finish(c, v.Trigger(ctx))
}

// finish publishes a terminal outcome and answers the browser: a redirect
// into the protected area on success, an error page linking back to login
// otherwise.
func (s *Server) finish(c echo.Context, out flow.Outcome) error {
	s.publish(out)

	if out.State == flow.StateAuthenticated {
		return c.Redirect(http.StatusSeeOther, out.Redirect)
	}
	return c.Render(http.StatusUnauthorized, pageFailed, failedView{
		Title:   failureTitle(out.State),
		Message: failureMessage(out),
		Back:    out.Redirect,
	})
}

func (s *Server) handleDashboard(c echo.Context) error {
	snap := s.deps.Session.Snapshot()
	view := dashboardView{WorkspaceID: snap.WorkspaceID}
	if snap.Identity != nil {
		view.Email = snap.Identity.Email
	}
	return c.Render(http.StatusOK, pageDashboard, view)
}

func (s *Server) handleLogout(c echo.Context) error {
	if err := s.deps.Session.Logout(c.Request().Context()); err != nil {
		s.deps.Logger.WarnContext(c.Request().Context(), "logout did not clear persisted session", "error", err)
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Redirect(http.StatusSeeOther, route.Login)
}

func failureTitle(state flow.State) string {
	switch state {
	case flow.StateInvalidLink:
		return "Invalid Link"
	case flow.StateNoToken:
		return "Error"
	default:
		return "Login Failed"
	}
}

func failureMessage(out flow.Outcome) string {
	switch out.State {
	case flow.StateInvalidLink:
		return "No token found in the URL. Please make sure you followed the link correctly."
	case flow.StateNoToken:
		return "No token found in the URL. SSO login failed."
	}
	if out.Err != nil {
		return "Error: " + out.Err.Error()
	}
	return "Login failed."
}
