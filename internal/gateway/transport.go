package gateway

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Outbound headers.
const (
	HeaderAuthorization = "Authorization"
	HeaderWorkspaceID   = "X-Workspace-ID"
	HeaderRequestID     = "X-Request-ID"
)

// Credentials supplies the ambient bearer token and workspace id at call time.
type Credentials interface {
	Token() string
	WorkspaceID() string
}

type bearerKey struct{}

// WithBearer returns a context whose calls authenticate with token instead of
// the ambient credential. The ambient workspace header is not sent either,
// since it belongs to whoever holds the ambient token.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerKey{}).(string)
	return token, ok
}

// CredentialTransport attaches credentials to every outbound request.
type CredentialTransport struct {
	base  http.RoundTripper
	creds Credentials
}

// NewCredentialTransport wraps base. A nil base uses http.DefaultTransport and
// a nil creds sends no ambient credential.
func NewCredentialTransport(base http.RoundTripper, creds Credentials) *CredentialTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &CredentialTransport{base: base, creds: creds}
}

// RoundTrip implements http.RoundTripper.
func (t *CredentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	r := req.Clone(ctx)

	token, workspaceID := "", ""
	if override, ok := bearerFromContext(ctx); ok {
		token = override
	} else if t.creds != nil {
		token = t.creds.Token()
		workspaceID = t.creds.WorkspaceID()
	}

	if token != "" {
		r.Header.Set(HeaderAuthorization, "Bearer "+token)
	} else {
		r.Header.Del(HeaderAuthorization)
	}
	if workspaceID != "" {
		r.Header.Set(HeaderWorkspaceID, workspaceID)
	}
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))

	return t.base.RoundTrip(r)
}
