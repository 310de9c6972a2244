package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "OWNER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	require.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims := tok.Claims.(jwt.MapClaims)
	require.EqualValues(t, 42, claims["sub"])
	require.Equal(t, "OWNER", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret", 1, "RENTER", 5)
	require.NoError(t, err)
	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	require.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	require.Len(t, rt.Raw, 96) // 48 random bytes hex-encoded
	require.True(t, rt.Exp.After(time.Now().UTC().Add(29*24*time.Hour)))

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	require.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashRefreshRawDeterministic(t *testing.T) {
	require.Equal(t, HashRefreshRaw("abc"), HashRefreshRaw("abc"))
	require.NotEqual(t, HashRefreshRaw("abc"), HashRefreshRaw("abd"))
	require.Len(t, HashRefreshRaw("abc"), 64)
}
