package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "CUSTOMER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "CUSTOMER", claims["role"])
	assert.InDelta(t, time.Now().UTC().Add(15*time.Minute).Unix(), at.Exp.Unix(), 2)
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right", 42, "ADMIN", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
}

func TestNewAuthToken(t *testing.T) {
	a, err := NewAuthToken(30)
	require.NoError(t, err)
	b, err := NewAuthToken(30)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.InDelta(t, time.Now().UTC().AddDate(0, 0, 30).Unix(), a.Exp.Unix(), 2)
}

func TestHashTokenRaw(t *testing.T) {
	h := HashTokenRaw("token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashTokenRaw("token"))
	assert.NotEqual(t, h, HashTokenRaw("other"))
}
