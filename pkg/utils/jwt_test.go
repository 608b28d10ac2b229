package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenRoundTrip(t *testing.T) {
	InitJWT("round-trip-secret")

	token, err := GenerateServiceToken("scheduler", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "scheduler", claims.Agent)
	assert.Equal(t, "SERVICE", claims.Role)
	assert.Equal(t, "scheduler", claims.Subject)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))
}

func TestParseJWTExpiredToken(t *testing.T) {
	InitJWT("round-trip-secret")

	token, err := GenerateServiceToken("scheduler", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWTWrongSecret(t *testing.T) {
	InitJWT("first-secret")
	token, err := GenerateServiceToken("scheduler", time.Hour)
	require.NoError(t, err)

	InitJWT("second-secret")
	_, err = ParseJWT(token)
	require.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	InitJWT("round-trip-secret")

	_, err := ParseJWT("not.a.token")
	require.Error(t, err)
}
