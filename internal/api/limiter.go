package api

import (
	"sync"
	"time"

	"shareit/internal/config"

	"golang.org/x/time/rate"
)

const (
	defaultBurst = 5
	// maxLimiters bounds the bucket map; idle buckets are swept past it.
	maxLimiters = 10000
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// rateLimiter хранит token bucket на каждого клиента
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	cfg      config.APIRateLimitConfig
	now      func() time.Time
}

func newRateLimiter(cfg config.APIRateLimitConfig) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*limiterEntry),
		cfg:      cfg,
		now:      time.Now,
	}
}

func (l *rateLimiter) enabled() bool {
	return l.cfg.RPS > 0
}

func (l *rateLimiter) burst() int {
	if l.cfg.Burst <= 0 {
		return defaultBurst
	}
	return l.cfg.Burst
}

// allow reports whether key still has a token. Always true when rps is unset.
func (l *rateLimiter) allow(key string) bool {
	if !l.enabled() {
		return true
	}
	return l.getLimiter(key).Allow()
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.limiters[key]; ok {
		e.lastSeen = now
		return e.lim
	}

	if len(l.limiters) >= maxLimiters {
		l.sweep(now)
	}
	e := &limiterEntry{lim: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.burst()), lastSeen: now}
	l.limiters[key] = e
	return e.lim
}

// sweep drops buckets idle long enough to have refilled completely; a new
// bucket for the same key starts in the same state.
func (l *rateLimiter) sweep(now time.Time) {
	refill := time.Duration(float64(l.burst()) / l.cfg.RPS * float64(time.Second))
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) >= refill {
			delete(l.limiters, k)
		}
	}
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
