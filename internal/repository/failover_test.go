package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverLimiter(t *testing.T) {
	primary := new(mockLimiter)
	fallback := new(mockLimiter)
	logger := zerolog.New(io.Discard)
	limiter := NewFailoverLimiter(primary, fallback, &logger)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary.On("Allow", ctx, "k", 5, time.Minute).Return(true, nil).Once()

		allowed, err := limiter.Allow(ctx, "k", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.False(t, limiter.IsDegraded())
	})

	t.Run("PrimaryFailure", func(t *testing.T) {
		primary.On("Allow", ctx, "k", 5, time.Minute).Return(false, errors.New("redis down")).Once()
		fallback.On("Allow", ctx, "k", 5, time.Minute).Return(true, nil).Once()

		allowed, err := limiter.Allow(ctx, "k", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, limiter.IsDegraded())
	})

	t.Run("StaysOnFallbackWithinRecoveryInterval", func(t *testing.T) {
		fallback.On("Allow", ctx, "k", 5, time.Minute).Return(false, nil).Once()

		allowed, err := limiter.Allow(ctx, "k", 5, time.Minute)
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("Recovery", func(t *testing.T) {
		now = now.Add(2 * recoveryInterval)
		primary.On("Allow", ctx, "k", 5, time.Minute).Return(true, nil).Once()

		allowed, err := limiter.Allow(ctx, "k", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.False(t, limiter.IsDegraded())
	})

	primary.AssertExpectations(t)
	fallback.AssertExpectations(t)
}
