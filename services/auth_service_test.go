package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthServiceLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService("admin", string(hash), "test-signing-key")

	t.Run("valid credentials return a signed admin token", func(t *testing.T) {
		tokenStr, err := svc.Login(context.Background(), "admin", "secret-pass")
		require.NoError(t, err)
		require.NotEmpty(t, tokenStr)

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			require.IsType(t, &jwt.SigningMethodHMAC{}, token.Method)
			return []byte("test-signing-key"), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "admin", claims["sub"])
		assert.Equal(t, "admin", claims["role"])
		assert.NotEmpty(t, claims["exp"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "root", "secret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
