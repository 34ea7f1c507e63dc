package gateway

import (
	"context"
	"errors"

	"github.com/marcjazz/nullslot/internal/domain"
)

// Auth implements the login-related backend calls.
type Auth struct {
	client *Client
}

// NewAuth creates the auth gateway.
func NewAuth(c *Client) *Auth {
	return &Auth{client: c}
}

// RequestMagicLink asks the backend to email a one-time link to email.
func (a *Auth) RequestMagicLink(ctx context.Context, email string) error {
	var out struct {
		RequestMagicLink bool `json:"requestMagicLink"`
	}
	vars := map[string]any{"input": map[string]any{"email": email}}
	if err := a.client.Do(ctx, opRequestMagicLink, vars, &out); err != nil {
		return err
	}
	if !out.RequestMagicLink {
		return &Error{Operation: opRequestMagicLink.Name, Message: "magic link request was not accepted"}
	}
	return nil
}

// RedeemMagicLink exchanges a one-time token for an identity and bearer token.
func (a *Auth) RedeemMagicLink(ctx context.Context, oneTimeToken string) (*domain.MagicLinkLogin, error) {
	var out struct {
		LoginWithMagicLink *domain.MagicLinkLogin `json:"loginWithMagicLink"`
	}
	vars := map[string]any{"input": map[string]any{"token": oneTimeToken}}
	if err := a.client.Do(ctx, opLoginWithMagicLink, vars, &out); err != nil {
		return nil, err
	}
	if out.LoginWithMagicLink == nil || out.LoginWithMagicLink.Token == "" {
		return nil, errors.New("LoginWithMagicLink: response has no token")
	}
	return out.LoginWithMagicLink, nil
}

// Me returns the identity behind the call's bearer credential. Combine with
// WithBearer to look up a token other than the stored one.
func (a *Auth) Me(ctx context.Context) (*domain.Identity, error) {
	var out struct {
		Me *domain.Identity `json:"me"`
	}
	if err := a.client.Do(ctx, opMe, nil, &out); err != nil {
		return nil, err
	}
	if out.Me == nil {
		return nil, domain.ErrMissingIdentity
	}
	return out.Me, nil
}
