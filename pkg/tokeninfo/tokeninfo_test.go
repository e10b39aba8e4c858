package tokeninfo_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/souq/pkg/tokeninfo"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestInspectReadsSimpleJWTClaims(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	token := sign(t, jwt.MapClaims{
		"token_type": "access",
		"user_id":    42,
		"exp":        exp.Unix(),
	})

	info, err := tokeninfo.Inspect(token)
	require.NoError(t, err)
	require.Equal(t, "42", info.Subject)
	require.True(t, info.ExpiresAt.Equal(exp))
	require.False(t, info.Expired(time.Now()))
	require.True(t, info.Expired(exp.Add(time.Second)))
}

func TestInspectPrefersSubject(t *testing.T) {
	token := sign(t, jwt.RegisteredClaims{Subject: "user-7"})

	info, err := tokeninfo.Inspect(token)
	require.NoError(t, err)
	require.Equal(t, "user-7", info.Subject)
	require.True(t, info.ExpiresAt.IsZero())
	require.False(t, info.Expired(time.Now()))
}

func TestInspectOpaqueToken(t *testing.T) {
	_, err := tokeninfo.Inspect("opaque-access-token")
	require.ErrorIs(t, err, tokeninfo.ErrOpaque)
}
