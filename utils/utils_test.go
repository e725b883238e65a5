package utils

import (
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mr *miniredis.Miniredis

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")

	var err error
	mr, err = miniredis.Run()
	if err != nil {
		panic(err)
	}
	SetRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	code := m.Run()
	mr.Close()
	os.Exit(code)
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "IvanovI", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "IvanovI", claims.Username)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(1, "IvanovI", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestSanitizeStripsScripts(t *testing.T) {
	assert.Equal(t, "привет", Sanitize("<script>alert(1)</script>привет"))
	assert.Equal(t, "plain text", Sanitize("plain text"))
}

func TestCacheRoundTrip(t *testing.T) {
	mr.FlushAll()

	_, ok := CacheGetBytes("cache:page:index:page=1")
	assert.False(t, ok)

	CacheSetBytes("cache:page:index:page=1", []byte("<html>cached</html>"), 20*time.Second)
	got, ok := CacheGetBytes("cache:page:index:page=1")
	require.True(t, ok)
	assert.Equal(t, []byte("<html>cached</html>"), got)

	mr.FastForward(21 * time.Second)
	_, ok = CacheGetBytes("cache:page:index:page=1")
	assert.False(t, ok)
}

func TestInvalidateByPrefix(t *testing.T) {
	mr.FlushAll()

	CacheSetBytes("cache:page:index:page=1", []byte("one"), time.Minute)
	CacheSetBytes("cache:page:index:page=2", []byte("two"), time.Minute)
	CacheSetBytes("cache:page:other", []byte("keep"), time.Minute)

	InvalidateByPrefix("cache:page:index:")

	_, ok := CacheGetBytes("cache:page:index:page=1")
	assert.False(t, ok)
	_, ok = CacheGetBytes("cache:page:index:page=2")
	assert.False(t, ok)
	_, ok = CacheGetBytes("cache:page:other")
	assert.True(t, ok)
}

func TestTokenBlacklist(t *testing.T) {
	mr.FlushAll()

	assert.False(t, IsTokenBlacklisted("fresh-token"))
	BlacklistToken("revoked-token", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("revoked-token"))
	assert.False(t, IsTokenBlacklisted("fresh-token"))
}

func TestBlacklistIgnoresExpiredTokens(t *testing.T) {
	mr.FlushAll()

	BlacklistToken("already-expired", time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted("already-expired"))
}
