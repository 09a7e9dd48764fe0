package api

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestHealthServerCheck(t *testing.T) {
	store := &fakePinger{}
	h := newHealthServer(store)
	ctx := context.Background()

	resp, err := h.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = h.Check(ctx, &healthpb.HealthCheckRequest{Service: "shareit"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	store.err = errors.New("database is closed")
	resp, err = h.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	_, err = h.Check(ctx, &healthpb.HealthCheckRequest{Service: "billing"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestChainUnaryInterceptors(t *testing.T) {
	var order []string
	mk := func(name string) grpc.UnaryServerInterceptor {
		return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
			order = append(order, name)
			return h(ctx, req)
		}
	}

	chained := ChainUnaryInterceptors(mk("first"), mk("second"))
	resp, err := chained(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(_ context.Context, req any) (any, error) {
			order = append(order, "handler")
			return req, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "req", resp)
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func okHandler(context.Context, any) (any, error) { return "ok", nil }

func TestAuthInterceptor(t *testing.T) {
	cfg := config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			APIKeys:      []config.APIClientKey{{Key: "secret", Name: "ops"}},
		},
	}
	unary := NewAuthInterceptor(cfg).Unary()
	info := &grpc.UnaryServerInfo{FullMethod: "/shareit.Ops/Do"}

	tests := []struct {
		name string
		ctx  context.Context
		code codes.Code
	}{
		{"no metadata", context.Background(), codes.Unauthenticated},
		{"missing key", metadata.NewIncomingContext(context.Background(), metadata.Pairs("other", "v")), codes.Unauthenticated},
		{"wrong key", metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-api-key", "nope")), codes.Unauthenticated},
		{"valid key", metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-api-key", "secret")), codes.OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := unary(tt.ctx, nil, info, okHandler)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	t.Run("HealthBypassesAuth", func(t *testing.T) {
		healthInfo := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
		resp, err := unary(context.Background(), nil, healthInfo, okHandler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})
}

func TestAuthInterceptorRateLimit(t *testing.T) {
	cfg := config.APIConfig{RateLimit: config.APIRateLimitConfig{RPS: 0.001, Burst: 1}}
	unary := NewAuthInterceptor(cfg).Unary()
	info := &grpc.UnaryServerInfo{FullMethod: "/shareit.Ops/Do"}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-api-key", "k"))

	_, err := unary(ctx, nil, info, okHandler)
	require.NoError(t, err)

	_, err = unary(ctx, nil, info, okHandler)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestLoggingUnaryInterceptor(t *testing.T) {
	logger := zerolog.Nop()
	unary := LoggingUnaryInterceptor(&logger)

	resp, err := unary(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, okHandler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	failing := func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Internal, "boom")
	}
	_, err = unary(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, failing)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRequestIDFromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(requestIDMetadataKey, " abc "))
	assert.Equal(t, "abc", requestIDFromMetadata(ctx))

	generated := requestIDFromMetadata(context.Background())
	assert.Len(t, generated, 36)
}

func TestRateLimiterDisabled(t *testing.T) {
	l := newRateLimiter(config.APIRateLimitConfig{})
	for i := 0; i < 100; i++ {
		require.True(t, l.allow("k"))
	}

	l = newRateLimiter(config.APIRateLimitConfig{RPS: 0.001})
	for i := 0; i < defaultBurst; i++ {
		require.True(t, l.allow("k"))
	}
	assert.False(t, l.allow("k"))
	assert.Same(t, l.getLimiter("k"), l.getLimiter("k"))
}

func TestRateLimiterSweepsIdleBuckets(t *testing.T) {
	l := newRateLimiter(config.APIRateLimitConfig{RPS: 10, Burst: 1})
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	hot := l.getLimiter("hot")
	for i := 1; i < maxLimiters; i++ {
		l.getLimiter(fmt.Sprintf("user:%d", i))
	}
	require.Equal(t, maxLimiters, l.size())

	clock = clock.Add(time.Second)
	assert.Same(t, hot, l.getLimiter("hot"))

	l.getLimiter("fresh")
	assert.Equal(t, 2, l.size())
	assert.Same(t, hot, l.getLimiter("hot"))
}

func TestWriteServiceErrorInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	logger := zerolog.Nop()
	writeServiceError(rec, &logger, errors.New("disk full"))

	assert.Equal(t, 500, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","description":"disk full"}`, rec.Body.String())
}
