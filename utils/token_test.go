package utils

import (
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenStr, err := GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)

	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	require.Equal(t, "user-1", claims["user_id"])
	require.Equal(t, "user@example.com", claims["email"])
	require.NotEmpty(t, claims["exp"])
}

func TestAccessTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenStr, err := GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte("другой-секрет"), nil
	})
	require.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh")

	tokenStr, err := GenerateRefreshToken("user-1")
	require.NoError(t, err)

	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_REFRESH_SECRET")), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	require.Equal(t, "user-1", tok.Claims.(jwt.MapClaims)["user_id"])
}
