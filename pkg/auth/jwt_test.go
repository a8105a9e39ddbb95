package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	validator, err := NewJWTValidator(testSecret, "gironomall")
	require.NoError(t, err)

	validClaims := Claims{
		UserID: "user-1",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gironomall",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("accepts a valid token", func(t *testing.T) {
		claims, err := validator.ValidateToken(signToken(t, testSecret, validClaims))
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "user@example.com", claims.Email)
	})

	t.Run("strips the bearer prefix", func(t *testing.T) {
		_, err := validator.ValidateToken("Bearer " + signToken(t, testSecret, validClaims))
		assert.NoError(t, err)
	})

	t.Run("empty token is missing", func(t *testing.T) {
		_, err := validator.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong signature is invalid", func(t *testing.T) {
		_, err := validator.ValidateToken(signToken(t, "other-secret", validClaims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := validClaims
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := validator.ValidateToken(signToken(t, testSecret, expired))
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		foreign := validClaims
		foreign.Issuer = "someone-else"
		_, err := validator.ValidateToken(signToken(t, testSecret, foreign))
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("missing subject", func(t *testing.T) {
		anonymous := validClaims
		anonymous.UserID = ""
		_, err := validator.ValidateToken(signToken(t, testSecret, anonymous))
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestNewJWTValidator(t *testing.T) {
	_, err := NewJWTValidator("", "issuer")
	assert.Error(t, err)
}

func TestUserContext(t *testing.T) {
	ctx := WithUser(context.Background(), UserContext{UserID: "u1", Email: "e"})

	user, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", user.UserID)

	_, ok = UserFromContext(context.Background())
	assert.False(t, ok)
}
