package flow

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/route"
)

// BearerScope makes the calls of ctx authenticate with token. The gateway
// provides it; the flow stays unaware of HTTP.
type BearerScope func(ctx context.Context, token string) context.Context

// OIDCVerification turns the token of one SSO redirect into a session.
type OIDCVerification struct {
	lookup    domain.IdentityLookup
	sink      domain.SessionSink
	withToken BearerScope
	logger    *slog.Logger

	// token is owned by the winner of the latch and zeroed after use.
	token string
	latch *latch
}

// NewOIDCVerification reads the redirect token from callback. A missing token
// yields StateNoToken; an error parameter set by the backend yields
// StateFailed. Neither issues a network call.
func NewOIDCVerification(lookup domain.IdentityLookup, sink domain.SessionSink, withToken BearerScope, callback *url.URL, logger *slog.Logger) *OIDCVerification {
	if logger == nil {
		logger = slog.Default()
	}

	token := tokenParam(callback)
	initial := Outcome{State: StateIdle}
	switch {
	case errorParam(callback) != "":
		initial = Outcome{
			State:    StateFailed,
			Err:      fmt.Errorf("SSO login failed: %s", errorParam(callback)),
			Redirect: route.Login,
		}
		token = ""
	case token == "":
		initial = Outcome{State: StateNoToken, Err: domain.ErrNoToken, Redirect: route.Login}
	}

	return &OIDCVerification{
		lookup:    lookup,
		sink:      sink,
		withToken: withToken,
		logger:    logger,
		token:     token,
		latch:     newLatch(initial),
	}
}

// Trigger looks up the identity behind the redirect token on the first call
// and logs in with that pair. Later calls return the current outcome.
func (v *OIDCVerification) Trigger(ctx context.Context) Outcome {
	if !v.latch.acquire() {
		return v.latch.current()
	}
	v.latch.set(Outcome{State: StateVerifying})

	token := v.token
	v.token = ""

	ctx, span := tracer.Start(ctx, "oidc.verify")
	defer span.End()

	identity, err := v.lookup.Me(v.withToken(ctx, token))
	if err == nil {
		err = v.sink.Login(ctx, identity, token)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		v.logger.WarnContext(ctx, "sso verification failed", "error", err)
		return v.latch.finish(Outcome{
			State:    StateFailed,
			Err:      fmt.Errorf("failed to fetch user details: %w", err),
			Redirect: route.Login,
		})
	}

	span.SetAttributes(attribute.String("user.id", identity.ID))
	v.logger.InfoContext(ctx, "sso login verified", "user_id", identity.ID)
	id := *identity
	return v.latch.finish(Outcome{State: StateAuthenticated, Identity: &id, Redirect: route.Dashboard})
}

// Outcome returns the current outcome without triggering.
func (v *OIDCVerification) Outcome() Outcome {
	return v.latch.current()
}

// Done is closed once the verification reaches a terminal state.
func (v *OIDCVerification) Done() <-chan struct{} {
	return v.latch.done
}

func errorParam(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("error"))
}
