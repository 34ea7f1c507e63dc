// Package callback runs the local HTTP server that the browser lands on when
// following a magic link or finishing an SSO login.
package callback

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/flow"
	"github.com/marcjazz/nullslot/internal/guard"
	"github.com/marcjazz/nullslot/internal/route"
)

// Session is the part of session.State the pages use.
type Session interface {
	domain.SessionSource
	domain.SessionSink
	Logout(ctx context.Context) error
}

// Config configures the server.
type Config struct {
	ListenAddr  string
	SSOLoginURL string
	// Linger keeps the server up after the first login outcome so the
	// browser can follow the redirect.
	Linger      time.Duration
	Telemetry   bool
	ServiceName string
}

// Deps are the collaborators of the pages.
type Deps struct {
	Session  Session
	// Sink receives logins from the callback flows. Defaults to Session.
	Sink     domain.SessionSink
	Sender   domain.LinkSender
	Redeemer domain.LinkRedeemer
	Lookup   domain.IdentityLookup
	Bearer   flow.BearerScope
	Logger   *slog.Logger
}

// Server serves the login pages. Each request to a callback route builds a
// fresh flow instance, the way each page load mounts a fresh page.
type Server struct {
	cfg  Config
	deps Deps
	echo *echo.Echo

	outcomes chan flow.Outcome

	mu   sync.Mutex
	addr net.Addr
}

// New builds the server and its routes.
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Sink == nil {
		deps.Sink = deps.Session
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "nullslot"
	}

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		outcomes: make(chan flow.Outcome, 1),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = pageRenderer{}

	e.Use(SecurityHeaders())
	if cfg.Telemetry {
		e.Use(otelecho.Middleware(cfg.ServiceName))
	}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// Route path only: callback query strings carry tokens.
			attrs := []any{
				"method", v.Method,
				"path", c.Path(),
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			rctx := c.Request().Context()
			if v.Error != nil {
				deps.Logger.ErrorContext(rctx, "request failed", append(attrs, "error", v.Error.Error())...)
			} else {
				deps.Logger.DebugContext(rctx, "request completed", attrs...)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET(route.Root, s.handleRoot)
	e.GET(route.Login, s.handleLoginPage)
	e.POST(route.Login, s.handleRequestLink)
	e.GET(route.MagicLinkCallback, s.handleMagicLink)
	e.GET(route.OIDCCallback, s.handleOIDC)
	e.GET(route.Dashboard, s.handleDashboard, guard.RequireSession(deps.Session))
	e.POST(route.Logout, s.handleLogout)

	s.echo = e
	return s
}

// Handler exposes the routes for in-process use.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Outcomes delivers the first terminal outcome of a callback route.
func (s *Server) Outcomes() <-chan flow.Outcome {
	return s.outcomes
}

// Addr is the bound listen address once Run has started listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	s.echo.Listener = ln

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.deps.Logger.DebugContext(gCtx, "callback server listening", "address", ln.Addr().String())
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Await serves until the first login outcome arrives, lingers briefly so the
// browser can follow the redirect, then shuts down. It returns ctx.Err() if
// ctx ends first.
func (s *Server) Await(ctx context.Context) (flow.Outcome, error) {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	var (
		out flow.Outcome
		got bool
	)

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return s.Run(gCtx) })
	g.Go(func() error {
		select {
		case out = <-s.outcomes:
			got = true
		case <-gCtx.Done():
			return nil
		}
		if s.cfg.Linger > 0 {
			select {
			case <-time.After(s.cfg.Linger):
			case <-gCtx.Done():
			}
		}
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return flow.Outcome{}, err
	}
	if !got {
		return flow.Outcome{}, ctx.Err()
	}
	return out, nil
}

func (s *Server) publish(out flow.Outcome) {
	select {
	case s.outcomes <- out:
	default:
	}
}
