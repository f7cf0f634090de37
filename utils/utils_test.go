package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(42, "gopher", "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "gopher", claims.Username)

	_, err = ParseToken(tok, "other")
	assert.Error(t, err)

	expired, err := GenerateToken(42, "gopher", "s3cret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, "s3cret")
	assert.Error(t, err)

	anonymous, err := GenerateToken(0, "", "s3cret", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(anonymous, "s3cret")
	assert.Error(t, err, "user id 0 is not an identity")
}

func TestRevokeTokenInMemory(t *testing.T) {
	SetRedis(nil)
	ctx := context.Background()

	assert.False(t, IsTokenRevoked(ctx, "tok-a"))
	RevokeToken(ctx, "tok-a", time.Now().Add(time.Hour))
	assert.True(t, IsTokenRevoked(ctx, "tok-a"))

	RevokeToken(ctx, "tok-b", time.Now().Add(-time.Second))
	assert.False(t, IsTokenRevoked(ctx, "tok-b"), "already expired tokens are not stored")
}

func TestUniqueUint(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, UniqueUint([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, UniqueUint(nil))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, `<p>hello</p>`, Sanitize(`<p onclick="x()">hello</p><script>bad()</script>`))
}

func TestCacheHelpersWithoutRedis(t *testing.T) {
	SetRedis(nil)
	CacheSetJSON("k", map[string]int{"a": 1}, time.Minute)
	_, ok := CacheGetBytes("k")
	assert.False(t, ok)
	InvalidateByPrefix("k")
}
