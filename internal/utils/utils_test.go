package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	tok, err := GenerateToken(secret, userID, "ada@example.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenExpired(t *testing.T) {
	tok, err := GenerateToken("s", uuid.New(), "a@b.com", "user", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("s", tok)
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tok, err := GenerateToken("right", uuid.New(), "a@b.com", "user", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("wrong", tok)
	assert.Error(t, err)
}

func TestGenerateShortURL(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		slug, err := GenerateShortURL()
		require.NoError(t, err)
		assert.Regexp(t, pattern, slug)
		seen[slug] = true
	}
	assert.Greater(t, len(seen), 1, "slugs should not repeat constantly")
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
