package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			SecretKey:           "test-secret",
			AccessExpireSeconds: 60,
			Issuer:              "posttag-test",
		},
	}
	SetBlacklist(NewMemoryBlacklist())
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func TestGenerateAndParseToken(t *testing.T) {
	setupConfig(t)
	ctx := context.Background()

	token, issued, err := GenerateToken(7, RoleAdmin, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Id)

	claims, err := ParseToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "posttag-test", claims.Issuer)
	assert.Equal(t, issued.Id, claims.Id)
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	setupConfig(t)
	ctx := context.Background()

	// 有效期取配置值，配置成负数得到一个已过期的令牌
	config.GlobalConfig.JWT.AccessExpireSeconds = -60
	expired, _, err := GenerateToken(1, RoleAdmin, 0)
	require.NoError(t, err)
	_, err = ParseToken(ctx, expired)
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	config.GlobalConfig.JWT.AccessExpireSeconds = 60
	token, _, err := GenerateToken(1, RoleAdmin, 0)
	require.NoError(t, err)
	config.GlobalConfig.JWT.SecretKey = "another-secret"
	_, err = ParseToken(ctx, token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	_, err = ParseToken(ctx, "not-a-token")
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestRevokeToken(t *testing.T) {
	setupConfig(t)
	ctx := context.Background()

	token, _, err := GenerateToken(1, RoleAdmin, 0)
	require.NoError(t, err)

	require.NoError(t, RevokeToken(ctx, token))
	_, err = ParseToken(ctx, token)
	assert.True(t, errors.Is(err, ErrTokenRevoked))
}

func TestMemoryBlacklistExpiry(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlacklist()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	require.NoError(t, b.AddToBlacklist(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, b.AddToBlacklist(ctx, "old", now.Add(-time.Minute)))
	assert.Equal(t, 1, b.Len())

	revoked, err := b.IsBlacklisted(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsBlacklisted(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.AddToBlacklist(ctx, "b", now.Add(time.Minute)))
	assert.Equal(t, 1, b.Len())
}
