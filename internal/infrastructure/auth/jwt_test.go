package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obaptiste/dashboard-api/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.AuthConfig{
		JWTSecret:       "test-secret-that-is-long-enough-123",
		TokenExpiration: expiration,
		Issuer:          "dashboard-api-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	t.Run("round trips claims", func(t *testing.T) {
		svc := newTestJWTService(time.Minute)
		userID := uuid.New()

		token, err := svc.Generate(userID, "user@example.com", "Test User")
		require.NoError(t, err)
		assert.Equal(t, "Bearer", token.TokenType)
		assert.NotEmpty(t, token.AccessToken)

		claims, err := svc.Validate(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "user@example.com", claims.Email)
		assert.Equal(t, "Test User", claims.Name)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := newTestJWTService(-time.Minute)

		token, err := svc.Generate(uuid.New(), "user@example.com", "Test User")
		require.NoError(t, err)

		_, err = svc.Validate(token.AccessToken)
		assert.Equal(t, ErrExpiredToken, err)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		svc := newTestJWTService(time.Minute)

		_, err := svc.Validate("not.a.token")
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		svc := newTestJWTService(time.Minute)
		other := NewJWTService(config.AuthConfig{
			JWTSecret:       "another-secret-that-is-long-enough",
			TokenExpiration: time.Minute,
			Issuer:          "dashboard-api-test",
		})

		token, err := other.Generate(uuid.New(), "user@example.com", "Test User")
		require.NoError(t, err)

		_, err = svc.Validate(token.AccessToken)
		assert.Equal(t, ErrInvalidToken, err)
	})
}
