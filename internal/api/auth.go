package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const (
	apiKeyHeaderDefault = "x-api-key"
	clientKeyUnknown    = "unknown"
	healthServicePrefix = "/grpc.health.v1.Health/"
)

var (
	errMissingAPIKey = errors.New("missing api key header")
	errInvalidAPIKey = errors.New("invalid api key")
)

// apiKeys is the set of configured client keys.
type apiKeys []config.APIClientKey

// match returns the client owning key. Every configured key is compared
// in constant time.
func (k apiKeys) match(key string) (config.APIClientKey, bool) {
	var (
		found  config.APIClientKey
		exists bool
	)
	for _, c := range k {
		if subtle.ConstantTimeCompare([]byte(c.Key), []byte(key)) == 1 {
			found, exists = c, true
		}
	}
	return found, exists
}

func apiKeyHeader(cfg config.APIConfig) string {
	h := strings.TrimSpace(strings.ToLower(cfg.Auth.HeaderAPIKey))
	if h == "" {
		return apiKeyHeaderDefault
	}
	return h
}

// HTTPAuth provides the optional API-key gate, per-caller token buckets and
// the shared request quota for HTTP endpoints.
type HTTPAuth struct {
	cfg     config.APIConfig
	keys    apiKeys
	limiter *rateLimiter
	quota   domain.QuotaLimiter
	logger  *zerolog.Logger
}

func NewHTTPAuth(cfg config.APIConfig, quota domain.QuotaLimiter, logger *zerolog.Logger) *HTTPAuth {
	return &HTTPAuth{
		cfg:     cfg,
		keys:    apiKeys(cfg.Auth.APIKeys),
		limiter: newRateLimiter(cfg.RateLimit),
		quota:   quota,
		logger:  logger,
	}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r); err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
		}

		key := clientKey(r, a.cfg.UserHeader)
		if !a.limiter.allow(key) {
			metrics.IncRateLimited("token_bucket")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		if !a.checkQuota(r.Context(), key) {
			metrics.IncRateLimited("quota")
			writeError(w, http.StatusTooManyRequests, "request quota exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	apiKey := strings.TrimSpace(r.Header.Get(apiKeyHeader(a.cfg)))
	if apiKey == "" {
		return errMissingAPIKey
	}
	if _, ok := a.keys.match(apiKey); !ok {
		return errInvalidAPIKey
	}
	return nil
}

// checkQuota fails open: a broken quota backend must not take the API down.
func (a *HTTPAuth) checkQuota(ctx context.Context, key string) bool {
	if a.quota == nil || a.cfg.RateLimit.Requests <= 0 {
		return true
	}
	window := time.Duration(a.cfg.RateLimit.Window) * time.Second
	allowed, err := a.quota.Allow(ctx, key, a.cfg.RateLimit.Requests, window)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("quota check failed")
		return true
	}
	return allowed
}

// AuthInterceptor applies the API-key gate and token buckets to gRPC calls.
// The health service is always reachable.
type AuthInterceptor struct {
	cfg     config.APIConfig
	keys    apiKeys
	limiter *rateLimiter
}

func NewAuthInterceptor(cfg config.APIConfig) *AuthInterceptor {
	return &AuthInterceptor{
		cfg:     cfg,
		keys:    apiKeys(cfg.Auth.APIKeys),
		limiter: newRateLimiter(cfg.RateLimit),
	}
}

func (a *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(ctx, req)
		}

		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(ctx); err != nil {
				return nil, err
			}
		}
		if !a.limiter.allow(a.clientKey(ctx)) {
			metrics.IncRateLimited("grpc")
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}

		return handler(ctx, req)
	}
}

func (a *AuthInterceptor) checkAuth(ctx context.Context) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing metadata")
	}

	apiKey := first(md.Get(apiKeyHeader(a.cfg)))
	if apiKey == "" {
		return status.Error(codes.Unauthenticated, errMissingAPIKey.Error())
	}
	if _, ok := a.keys.match(apiKey); !ok {
		return status.Error(codes.Unauthenticated, errInvalidAPIKey.Error())
	}
	return nil
}

func (a *AuthInterceptor) clientKey(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if apiKey := first(md.Get(apiKeyHeader(a.cfg))); apiKey != "" {
		return "key:" + apiKey
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return "peer:" + p.Addr.String()
	}
	return clientKeyUnknown
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}

func LoggingUnaryInterceptor(logger *zerolog.Logger) grpc.UnaryServerInterceptor {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "grpc").Logger()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := requestIDFromMetadata(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, requestID))

		start := time.Now()
		resp, err := handler(ctx, req)
		dur := time.Since(start)

		code := codes.OK
		if err != nil {
			code = status.Code(err)
		}

		remote := clientKeyUnknown
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			remote = p.Addr.String()
		}

		base.Info().
			Str("request_id", requestID).
			Str("method", info.FullMethod).
			Str("remote", remote).
			Str("code", code.String()).
			Dur("duration", dur).
			Msg("grpc request")

		return resp, err
	}
}

const requestIDMetadataKey = "x-request-id"

func requestIDFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if vals := md.Get(requestIDMetadataKey); len(vals) > 0 {
			if id := strings.TrimSpace(vals[0]); id != "" {
				return id
			}
		}
	}
	return uuid.NewString()
}
