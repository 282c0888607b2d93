package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	// Arrange
	m := NewTokenManager("test-secret", "wechat-backend", time.Hour)

	// Act
	token, err := m.Generate("user-1", "danny", "12345", "danny@example.com")
	require.NoError(t, err)
	claims, err := m.Validate(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "danny", claims.Username)
	assert.Equal(t, "12345", claims.UID)
	assert.Equal(t, "danny@example.com", claims.Email)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	// Arrange
	issuer := NewTokenManager("secret-a", "wechat-backend", time.Hour)
	verifier := NewTokenManager("secret-b", "wechat-backend", time.Hour)
	token, err := issuer.Generate("user-1", "danny", "1", "d@example.com")
	require.NoError(t, err)

	// Act
	_, err = verifier.Validate(token)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	// Arrange
	issuer := NewTokenManager("secret", "other-service", time.Hour)
	verifier := NewTokenManager("secret", "wechat-backend", time.Hour)
	token, err := issuer.Generate("user-1", "danny", "1", "d@example.com")
	require.NoError(t, err)

	// Act
	_, err = verifier.Validate(token)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	// Arrange
	m := NewTokenManager("secret", "wechat-backend", -time.Minute)
	token, err := m.Generate("user-1", "danny", "1", "d@example.com")
	require.NoError(t, err)

	// Act
	_, err = m.Validate(token)

	// Assert
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenBucketLimiter_AllowsUpToBurst(t *testing.T) {
	// Arrange
	limiter := NewTokenBucketLimiter(3, time.Minute)

	// Act / Assert
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(context.Background(), "client-1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(context.Background(), "client-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different key has its own bucket.
	allowed, err = limiter.Allow(context.Background(), "client-2")
	require.NoError(t, err)
	assert.True(t, allowed)
}
