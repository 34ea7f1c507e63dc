package tokeninfo

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspect_JWT(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := signed(t, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	info := Inspect(tok)

	assert.False(t, info.Opaque)
	assert.Equal(t, "42", info.Subject)
	assert.Equal(t, "admin", info.Role)
	assert.True(t, exp.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(exp.Add(-time.Minute)))
	assert.True(t, info.Expired(exp.Add(time.Minute)))
	assert.Equal(t, time.Hour, info.Remaining(exp.Add(-time.Hour)))
}

func TestInspect_ExpiredTokenStillReadable(t *testing.T) {
	exp := time.Now().Add(-time.Hour)
	info := Inspect(signed(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}}))

	assert.False(t, info.Opaque)
	assert.True(t, info.Expired(time.Now()))
	assert.Zero(t, info.Remaining(time.Now()))
}

func TestInspect_Opaque(t *testing.T) {
	for _, tok := range []string{"", "opaque-session-token", "a.b.c"} {
		info := Inspect(tok)
		assert.True(t, info.Opaque, "token %q", tok)
		assert.False(t, info.Expired(time.Now()))
	}
}
