// Package tokeninfo reads display details out of a bearer token without
// verifying it. The backend remains the only judge of a token's validity.
package tokeninfo

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the backend puts in its session tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Info describes a token for display.
type Info struct {
	// Opaque is true when the token is not a JWT; the other fields are then
	// zero.
	Opaque    bool
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry before now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Remaining is the time until expiry, or zero when unknown or past.
func (i Info) Remaining(now time.Time) time.Duration {
	if i.ExpiresAt.IsZero() || now.After(i.ExpiresAt) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}

// Inspect parses token without checking its signature.
func Inspect(token string) Info {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Info{Opaque: true}
	}

	info := Info{Subject: claims.Subject, Role: claims.Role}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}
