package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffToken(t *testing.T) {
	key := "0123456789abcdef0123456789abcdef"

	t.Run("Round trip", func(t *testing.T) {
		token, expireAt, err := GenerateStaffToken(key, "acme", time.Hour)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expireAt, 5*time.Second)

		claims, err := ParseStaffToken(key, token)
		require.NoError(t, err)
		assert.Equal(t, "acme", claims.ShopSlug)
		assert.Equal(t, "staff", claims.Role)
	})

	t.Run("Wrong key", func(t *testing.T) {
		token, _, err := GenerateStaffToken(key, "acme", time.Hour)
		require.NoError(t, err)

		_, err = ParseStaffToken("another-key", token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		token, _, err := GenerateStaffToken(key, "acme", -time.Minute)
		require.NoError(t, err)

		_, err = ParseStaffToken(key, token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Foreign issuer", func(t *testing.T) {
		claims := StaffClaims{
			ShopSlug:         "acme",
			Role:             "staff",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)

		_, err = ParseStaffToken(key, token)
		assert.Error(t, err)
	})
}
