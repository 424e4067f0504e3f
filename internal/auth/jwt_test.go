package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Generate(7, "ADMIN", "paula@example.com")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "paula@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestManager_Errors(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		m := NewManager("", time.Hour)
		_, err := m.Generate(1, "USER", "a@b.com")
		assert.ErrorIs(t, err, ErrMissingSecret)

		_, err = m.Parse("anything")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := NewManager("secret-a", time.Hour).Generate(1, "USER", "a@b.com")
		require.NoError(t, err)

		_, err = NewManager("secret-b", time.Hour).Parse(token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := CustomClaims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = NewManager("test-secret", time.Hour).Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("DefaultTTL", func(t *testing.T) {
		assert.Equal(t, 24*time.Hour, NewManager("s", 0).TTL())
	})
}
