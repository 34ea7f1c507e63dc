// Package route names the client's navigation targets and parses the links
// that lead to them.
package route

import (
	"fmt"
	"net/url"
	"strings"
)

// Paths of the client.
const (
	Root              = "/"
	Login             = "/login"
	Logout            = "/logout"
	Dashboard         = "/dashboard"
	MagicLinkCallback = "/magic-link-callback"
	OIDCCallback      = "/oidc-callback"
)

// ParseCallback accepts either a full callback link or a bare one-time token
// and returns a URL whose query carries the token. Bare tokens are placed on
// fallbackPath.
func ParseCallback(raw, fallbackPath string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &url.URL{Path: fallbackPath}, nil
	}

	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "/") || strings.Contains(raw, "?") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing link: %w", err)
		}
		return u, nil
	}

	return &url.URL{Path: fallbackPath, RawQuery: url.Values{"token": {raw}}.Encode()}, nil
}
