package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPair(t *testing.T, expiry time.Duration) (*JWTGenerator, *JWTValidator) {
	t.Helper()

	gen, err := NewJWTGenerator(JWTGeneratorConfig{
		SigningMethod: "HS256",
		SecretKey:     "test-secret",
		Issuer:        "pebblevault",
		Audience:      []string{"pebblevault-api"},
		ExpiryTime:    expiry,
	})
	require.NoError(t, err)

	val, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "test-secret",
		Issuer:        "pebblevault",
		Audience:      []string{"pebblevault-api"},
	})
	require.NoError(t, err)

	return gen, val
}

func TestJWTRoundTrip(t *testing.T) {
	gen, val := newTestPair(t, time.Hour)

	token, err := gen.GenerateToken("user-123", "u@example.com", []string{"authenticated"})
	require.NoError(t, err)

	claims, err := val.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, []string{"authenticated"}, claims.Roles)
}

func TestJWTExpiredToken(t *testing.T) {
	gen, val := newTestPair(t, -time.Minute)

	token, err := gen.GenerateToken("user-123", "", nil)
	require.NoError(t, err)

	_, err = val.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTWrongSecret(t *testing.T) {
	gen, _ := newTestPair(t, time.Hour)

	other, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "different-secret",
	})
	require.NoError(t, err)

	token, err := gen.GenerateToken("user-123", "", nil)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestJWTGarbageToken(t *testing.T) {
	_, val := newTestPair(t, time.Hour)

	_, err := val.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserContextRoundTrip(t *testing.T) {
	ctx := SetUserInContext(context.Background(), &UserContext{UserID: "user-123"})

	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.UserID)

	_, err = GetUserFromContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingUser)
}
