package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "other", 2, time.Minute)
	assert.True(t, allowed)

	now = now.Add(2 * time.Minute)
	allowed, _ = limiter.Allow(ctx, "k", 2, time.Minute)
	assert.True(t, allowed, "new window starts after expiry")
}

func TestMemoryLimiterSweep(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < maxMemoryEntries; i++ {
		limiter.entries[string(rune(i))] = &rateLimitEntry{count: 1, expiresAt: now.Add(-time.Second)}
	}

	_, err := limiter.Allow(context.Background(), "fresh", 1, time.Minute)
	require.NoError(t, err)
	assert.Len(t, limiter.entries, 1)
}
