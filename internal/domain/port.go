package domain

import "context"

// TokenStore is durable key-value persistence for the session slots.
// Get reports ok=false for an absent slot. Clear removes all given keys as one write.
type TokenStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, keys ...string) error
}

// LinkSender asks the backend to email a one-time login link.
type LinkSender interface {
	RequestMagicLink(ctx context.Context, email string) error
}

// LinkRedeemer exchanges a one-time token for a session.
type LinkRedeemer interface {
	RedeemMagicLink(ctx context.Context, oneTimeToken string) (*MagicLinkLogin, error)
}

// IdentityLookup resolves the identity behind the bearer credential of the call.
type IdentityLookup interface {
	Me(ctx context.Context) (*Identity, error)
}

// WorkspaceGateway creates and lists workspaces of the current identity.
type WorkspaceGateway interface {
	CreateWorkspace(ctx context.Context, name string) (*Workspace, error)
	MyWorkspaces(ctx context.Context) ([]Workspace, error)
}

// SessionSink is the single entry point the login flows write through.
type SessionSink interface {
	Login(ctx context.Context, identity *Identity, token string) error
}

// SessionSource exposes the current session to read-only consumers.
type SessionSource interface {
	Snapshot() Session
}
