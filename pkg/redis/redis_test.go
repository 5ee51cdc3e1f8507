package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "eduinsight/backend/pkg/errors"
)

// 未启用 Redis 时各方法应降级而非 panic
func TestNilClient_Degrades(t *testing.T) {
	var c *Client
	ctx := context.Background()

	blacklisted, err := c.IsBlacklisted(ctx, "jti")
	assert.NoError(t, err)
	assert.False(t, blacklisted)

	allowed, err := c.CheckRateLimit(ctx, "k", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)

	cutoff, err := c.TokensRevokedBefore(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, cutoff.IsZero())

	assert.ErrorIs(t, c.BlacklistToken(ctx, "jti", time.Minute), apperrors.ErrNotConfigured)
	assert.ErrorIs(t, c.RevokeUserTokens(ctx, 1, time.Minute), apperrors.ErrNotConfigured)
	assert.ErrorIs(t, c.PushSample(ctx, "k", []byte("{}"), 10), apperrors.ErrNotConfigured)

	_, err = c.RangeSamples(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotConfigured)

	assert.NoError(t, c.Close())
}
